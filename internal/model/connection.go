package model

// Credentials is what is typed into a login dialog.
type Credentials struct {
	Hostname string `yaml:"hostname" json:"hostname"`
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// ConnectionString is one named entry of a config file's connectionStrings
// section, with its well-known keys pulled out.
type ConnectionString struct {
	Name     string `yaml:"name"               json:"name"`
	Hostname string `yaml:"hostname,omitempty" json:"hostname,omitempty"`
	Database string `yaml:"database,omitempty" json:"database,omitempty"`
	Username string `yaml:"username,omitempty" json:"username,omitempty"`
	Password string `yaml:"password,omitempty" json:"password,omitempty"`
}

// Summary renders the entry as "name - user@database:host".
func (c ConnectionString) Summary() string {
	return c.Name + " - " + c.Username + "@" + c.Database + ":" + c.Hostname
}

// Masked returns a copy with the password replaced by asterisks.
func (c ConnectionString) Masked() ConnectionString {
	if c.Password != "" {
		c.Password = "********"
	}
	return c
}

// Credentials returns the login triple of the entry.
func (c ConnectionString) Credentials() Credentials {
	return Credentials{Hostname: c.Hostname, Username: c.Username, Password: c.Password}
}
