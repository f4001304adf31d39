package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"

	"gopkg.in/ini.v1"
)

// CredentialsSection is the INI section holding database login details.
const CredentialsSection = "Database"

// ErrNoCredentials is returned when the credentials file has no [Database] section.
var ErrNoCredentials = errors.New("no [Database] section in credentials file")

// Credentials identifies the database to connect to.
//
// The file looks like:
//
//	[Database]
//	host = db.example.org
//	database = results
//	user = importer
//	password = secret
//	; optional
//	port = 5432
//	sslmode = require
type Credentials struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
	SSLMode  string
}

// LoadCredentials reads the [Database] section of the INI file at path.
// host, database, user and password must all be present; password may be empty.
func LoadCredentials(path string) (Credentials, error) {
	if _, err := os.Stat(path); err != nil {
		return Credentials{}, fmt.Errorf("credentials file: %w", err)
	}

	f, err := ini.Load(path)
	if err != nil {
		return Credentials{}, fmt.Errorf("parse credentials file %s: %w", path, err)
	}

	sec, err := f.GetSection(CredentialsSection)
	if err != nil {
		return Credentials{}, ErrNoCredentials
	}

	var missing []string
	get := func(key string) string {
		if !sec.HasKey(key) {
			missing = append(missing, key)
			return ""
		}
		return sec.Key(key).String()
	}

	c := Credentials{
		Host:     get("host"),
		Database: get("database"),
		User:     get("user"),
		Password: get("password"),
		SSLMode:  sec.Key("sslmode").String(),
	}
	if len(missing) > 0 {
		return Credentials{}, fmt.Errorf("credentials file %s: missing keys %v in [%s]", path, missing, CredentialsSection)
	}

	if sec.HasKey("port") {
		port, err := sec.Key("port").Int()
		if err != nil || port <= 0 || port > 65535 {
			return Credentials{}, fmt.Errorf("credentials file %s: invalid port %q", path, sec.Key("port").String())
		}
		c.Port = port
	}

	return c, nil
}

// URI returns a postgres connection URI for the credentials.
//
// Security warning: the returned string includes the password.
func (c Credentials) URI() string {
	host := c.Host
	if c.Port != 0 {
		host = c.Host + ":" + strconv.Itoa(c.Port)
	}

	user := url.User(c.User)
	if c.Password != "" {
		user = url.UserPassword(c.User, c.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   user,
		Host:   host,
		Path:   c.Database,
	}

	if c.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", c.SSLMode)
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// String omits the password so credentials can be logged.
func (c Credentials) String() string {
	return fmt.Sprintf("host=%s database=%s user=%s", c.Host, c.Database, c.User)
}
