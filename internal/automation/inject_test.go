package automation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mj1618/cslogin/internal/model"
	"github.com/mj1618/cslogin/internal/platform"
)

func TestInject_PreservesOrder(t *testing.T) {
	rec := &recorder{}
	inj := &Injector{Inputter: rec}

	err := inj.Inject(Script{Text("h"), Key(platform.KeyTab), Text("u")})
	require.NoError(t, err)
	assert.Equal(t, []string{"char:h", "key:tab", "char:u"}, rec.events)
}

func TestInject_TextIsOneKeystrokePerRune(t *testing.T) {
	rec := &recorder{}
	inj := &Injector{Inputter: rec}

	require.NoError(t, inj.Inject(Script{Text("pä$")}))
	assert.Equal(t, []string{"char:p", "char:ä", "char:$"}, rec.events)
}

func TestInject_InvalidKeySendsNothing(t *testing.T) {
	rec := &recorder{}
	inj := &Injector{Inputter: rec}

	err := inj.Inject(Script{Text("a"), Key("hyper")})
	assert.Error(t, err)
	assert.Empty(t, rec.events)
}

func TestInject_SendErrorsAreNotFatal(t *testing.T) {
	rec := &recorder{failOn: "key:tab"}
	inj := &Injector{Inputter: rec}

	err := inj.Inject(Script{Text("a"), Key(platform.KeyTab), Text("b")})
	require.NoError(t, err)
	assert.Equal(t, []string{"char:a", "key:tab", "char:b"}, rec.events)
}

func TestLoginScript(t *testing.T) {
	got := LoginScript(model.Credentials{Hostname: "db1", Username: "sa", Password: "secret"})
	want := Script{
		Text("db1"),
		Key(platform.KeyTab),
		Key(platform.KeyTab),
		Text("sa"),
		Key(platform.KeyTab),
		Text("secret"),
		Key(platform.KeyEnter),
	}
	assert.Equal(t, want, got)
}

func TestParseScript(t *testing.T) {
	script, err := ParseScript([]byte(`
- text: db1
- key: Tab
- key: tab
- text: "sa"
- key: enter
`))
	require.NoError(t, err)
	assert.Equal(t, Script{Text("db1"), Key("Tab"), Key("tab"), Text("sa"), Key("enter")}, script)
}

func TestParseScript_Errors(t *testing.T) {
	tests := map[string]string{
		"empty":        ``,
		"not a list":   `text: a`,
		"two keys":     `- {text: a, key: tab}`,
		"unknown step": `- click: ok`,
		"unknown key":  `- key: hyper`,
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseScript([]byte(src))
			assert.Error(t, err)
		})
	}
}

func TestAction_String(t *testing.T) {
	assert.Equal(t, `Text("db1")`, Text("db1").String())
	assert.Equal(t, "Key(tab)", Key("tab").String())
}

func TestScript_Keystrokes(t *testing.T) {
	script := LoginScript(model.Credentials{Hostname: "db1", Username: "sa", Password: "pä"})
	assert.Equal(t, 3+2+2+4, script.Keystrokes())
}
