package auth

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	"github.com/agentstation/keyprobe/pkg/constants"
	pkgerrors "github.com/agentstation/keyprobe/pkg/errors"
	"github.com/agentstation/keyprobe/pkg/logging"
)

// Loader reads a single credential from a dotenv file, falling back to the
// process environment. It never writes to the environment.
type Loader struct {
	path      string
	keyName   string
	lookupEnv func(string) (string, bool)
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLookupEnv replaces os.LookupEnv, mainly for tests.
func WithLookupEnv(fn func(string) (string, bool)) LoaderOption {
	return func(l *Loader) {
		l.lookupEnv = fn
	}
}

// NewLoader creates a loader for keyName in the dotenv file at path.
// Empty arguments select the defaults (.env.openai and OPENAI_API_KEY).
func NewLoader(path, keyName string, opts ...LoaderOption) *Loader {
	if path == "" {
		path = constants.DefaultEnvFile
	}
	if keyName == "" {
		keyName = constants.DefaultKeyName
	}
	l := &Loader{
		path:      path,
		keyName:   keyName,
		lookupEnv: os.LookupEnv,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Path returns the dotenv file the loader reads.
func (l *Loader) Path() string {
	return l.path
}

// KeyName returns the variable the loader looks up.
func (l *Loader) KeyName() string {
	return l.keyName
}

// Load returns the credential. A non-empty value already in the environment
// wins; the file only fills the gap. A missing file, unreadable file, or absent
// key yields an empty credential; problems are logged, never returned.
func (l *Loader) Load(ctx context.Context) Credential {
	logger := logging.FromContext(ctx)
	cred := Credential{Name: l.keyName, Source: SourceNone, File: l.path}

	if v, ok := l.lookupEnv(l.keyName); ok && v != "" {
		cred.Value = v
		cred.Source = SourceEnv
		logger.Debug().Str("key", l.keyName).Msg("Credential taken from environment")
		return cred
	}

	values, err := godotenv.Read(l.path)
	switch {
	case err == nil:
		if v := values[l.keyName]; v != "" {
			cred.Value = v
			cred.Source = SourceFile
			logger.Debug().Str("file", l.path).Str("key", l.keyName).Msg("Credential loaded from file")
			return cred
		}
		logger.Debug().Str("file", l.path).Str("key", l.keyName).Msg("Key not present in file")
	case errors.Is(err, fs.ErrNotExist):
		logger.Debug().Str("file", l.path).Msg("Env file not found")
	default:
		logger.Warn().Err(pkgerrors.WrapParse("dotenv", l.path, err)).Msg("Ignoring unreadable env file")
	}

	return cred
}
