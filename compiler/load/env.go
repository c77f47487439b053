package load

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	"github.com/syssam/ormgen"
	"github.com/syssam/ormgen/datastore"
)

// LoadEnv loads the given .env files into the process environment.
// Variables already set are not overridden and missing files are skipped.
func LoadEnv(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return ormgen.WrapConfigError("env", "load "+f, err)
		}
	}
	return nil
}

// expandParams replaces ${VAR} and $VAR references in the string params
// with environment values.
func expandParams(p datastore.Params) datastore.Params {
	p.Host = os.ExpandEnv(p.Host)
	p.User = os.ExpandEnv(p.User)
	p.Password = os.ExpandEnv(p.Password)
	p.Database = os.ExpandEnv(p.Database)
	p.Path = os.ExpandEnv(p.Path)
	p.Schema = os.ExpandEnv(p.Schema)
	if len(p.Options) > 0 {
		opts := make(map[string]string, len(p.Options))
		for k, v := range p.Options {
			opts[k] = os.ExpandEnv(v)
		}
		p.Options = opts
	}
	return p
}
