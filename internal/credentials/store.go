// Package credentials looks up statement passwords from an external JSON
// file. Some issuers (ICICI, AU) ship password-protected statements; the
// password never lives in code or in the parsed output.
package credentials

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/spendlens/card-spend-tracker/internal/models"
)

// EnvPasswordFile overrides the default password file location.
const EnvPasswordFile = "CARD_TRACKER_PASSWORD_FILE"

// Store maps an uppercased bank name to its passwords, keyed by the card's
// last-4 digits with a "default" fallback:
//
//	{ "ICICI": { "default": "...", "1005": "..." } }
type Store map[string]map[string]string

// FilePath returns the password file location: the environment override if
// set, otherwise ~/.card-tracker/passwords.json.
func FilePath() string {
	if p := os.Getenv(EnvPasswordFile); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".card-tracker", "passwords.json")
}

// Load reads the password file. A missing or malformed file yields an
// empty store, never an error; statements that turn out to need a password
// will then fail at open time.
func Load(log zerolog.Logger) Store {
	path := FilePath()
	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn().Str("path", path).Msg("password file not found")
		return Store{}
	}
	var s Store
	if err := json.Unmarshal(data, &s); err != nil {
		log.Error().Str("path", path).Err(err).Msg("failed to parse password file")
		return Store{}
	}
	return s
}

// Password returns the stored password for a bank, preferring a card-suffix
// entry over the bank's default. Missing bank or entry yields "".
func (s Store) Password(bank models.Bank, cardSuffix string) string {
	entry, ok := s[strings.ToUpper(string(bank))]
	if !ok {
		return ""
	}
	if cardSuffix != "" {
		if pw, ok := entry[cardSuffix]; ok {
			return pw
		}
	}
	return entry["default"]
}
