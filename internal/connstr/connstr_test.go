package connstr

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mj1618/cslogin/internal/apperr"
	"github.com/mj1618/cslogin/internal/model"
)

const webConfig = `<?xml version="1.0" encoding="utf-8"?>
<configuration>
  <appSettings>
    <add key="Theme" value="dark" />
  </appSettings>
  <connectionStrings>
    <clear />
    <add name="MainConnectionString"
         connectionString="Data Source=db1; Initial Catalog=Sales ;User ID=sa;Password=secret" />
    <add name="TestConnectionString"
         connectionString="data source=db2;initial catalog=SalesTest;user id=tester;password=p=ss;" />
    <add name="Integrated" connectionString="Data Source=db3;Integrated Security=SSPI" />
    <add name="NoPassword" connectionString="Data Source=db4;User ID=ro" />
  </connectionStrings>
</configuration>
`

func parse(t *testing.T, src string) *File {
	t.Helper()
	f, err := Parse(strings.NewReader(src))
	require.NoError(t, err)
	return f
}

func TestLookup(t *testing.T) {
	f := parse(t, webConfig)

	creds, err := f.Lookup("MainConnectionString")
	require.NoError(t, err)
	assert.Equal(t, model.Credentials{Hostname: "db1", Username: "sa", Password: "secret"}, creds)

	creds, err = f.Lookup("TestConnectionString")
	require.NoError(t, err)
	assert.Equal(t, "p=ss", creds.Password, "value keeps everything after the first '='")
}

func TestLookup_NotFound(t *testing.T) {
	f := parse(t, webConfig)

	tests := []string{"Missing", "Integrated", "NoPassword", "mainconnectionstring"}
	for _, name := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := f.Lookup(name)
			assert.ErrorIs(t, err, apperr.ErrNotFound)
		})
	}
}

func TestLookup_EmptyPasswordIsPresent(t *testing.T) {
	f := parse(t, `<c><connectionStrings><add name="x" connectionString="Data Source=h;User ID=u;Password=" /></connectionStrings></c>`)

	creds, err := f.Lookup("x")
	require.NoError(t, err)
	assert.Equal(t, "", creds.Password)
}

func TestLookup_LaterEntriesOverride(t *testing.T) {
	f := parse(t, `<c>
<connectionStrings><add name="x" connectionString="Data Source=old;User ID=u;Password=p" /></connectionStrings>
<location><connectionStrings><add name="x" connectionString="Data Source=new" /></connectionStrings></location>
</c>`)

	creds, err := f.Lookup("x")
	require.NoError(t, err)
	assert.Equal(t, model.Credentials{Hostname: "new", Username: "u", Password: "p"}, creds)
	assert.Equal(t, []string{"x"}, f.Names())
}

func TestEntries(t *testing.T) {
	f := parse(t, webConfig)

	var got []string
	for _, cs := range f.Entries() {
		got = append(got, cs.Summary())
	}
	assert.Equal(t, []string{
		"MainConnectionString - sa@Sales:db1",
		"TestConnectionString - tester@SalesTest:db2",
		"NoPassword - ro@:db4",
	}, got)
}

func TestParse_IgnoresNestedAndForeignElements(t *testing.T) {
	f := parse(t, `<c>
<connectionStrings>
  <add name="a" connectionString="Data Source=h;User ID=u;Password=p"><add name="nested" connectionString="x=y" /></add>
  <remove name="b" />
</connectionStrings>
<add name="outside" connectionString="Data Source=h" />
</c>`)
	assert.Equal(t, []string{"a"}, f.Names())
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse(strings.NewReader(`<configuration><connectionStrings>`))
	assert.ErrorIs(t, err, apperr.ErrParseFailure)

	_, err = Parse(strings.NewReader(`<a></b>`))
	assert.ErrorIs(t, err, apperr.ErrParseFailure)
}

func TestParse_ByteOrderMarks(t *testing.T) {
	doc := `<?xml version="1.0" encoding="utf-16"?><c><connectionStrings><add name="x" connectionString="Data Source=h;User ID=u;Password=p" /></connectionStrings></c>`

	f := parse(t, "\xef\xbb\xbf"+strings.Replace(doc, "utf-16", "utf-8", 1))
	assert.Equal(t, []string{"x"}, f.Names())

	// UTF-16LE with BOM.
	var b strings.Builder
	b.WriteString("\xff\xfe")
	for _, r := range doc {
		b.WriteByte(byte(r))
		b.WriteByte(0)
	}
	f = parse(t, b.String())
	assert.Equal(t, []string{"x"}, f.Names())
}

func TestParse_LegacyEncoding(t *testing.T) {
	// "Pässword" in ISO-8859-1.
	doc := "<?xml version=\"1.0\" encoding=\"iso-8859-1\"?><c><connectionStrings><add name=\"x\" connectionString=\"Data Source=h;User ID=u;Password=P\xe4ss\" /></connectionStrings></c>"

	creds, err := parse(t, doc).Lookup("x")
	require.NoError(t, err)
	assert.Equal(t, "Päss", creds.Password)
}

func TestParseConnectionString(t *testing.T) {
	got := ParseConnectionString(" Data Source = db1 ;;junk; USER ID=sa;Password=a=b ")
	assert.Equal(t, map[string]string{
		"data source": "db1",
		"user id":     "sa",
		"password":    "a=b",
	}, got)
}

func TestConnectionString(t *testing.T) {
	f := parse(t, webConfig)

	cs, ok := f.ConnectionString("TestConnectionString")
	require.True(t, ok)
	assert.Equal(t, model.ConnectionString{
		Name:     "TestConnectionString",
		Hostname: "db2",
		Database: "SalesTest",
		Username: "tester",
		Password: "p=ss",
	}, cs)

	cs, ok = f.ConnectionString("Integrated")
	require.True(t, ok)
	assert.Equal(t, "db3", cs.Hostname)
	assert.Empty(t, cs.Username)

	_, ok = f.ConnectionString("Missing")
	assert.False(t, ok)

	values, _ := f.Values("Integrated")
	assert.Equal(t, "SSPI", values["integrated security"])
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "web.config")
	require.NoError(t, os.WriteFile(path, []byte(webConfig), 0o644))

	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, f.Path)

	_, err = Load(filepath.Join(t.TempDir(), "missing.config"))
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
