// Package categorize assigns category/subCategory to parsed transactions
// from two external JSON documents: a merchant-name table and a regex rule
// table. Both are data, not code; missing files just mean everything falls
// through to "Uncategorized".
package categorize

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/spendlens/card-spend-tracker/internal/models"
)

const (
	// CategoriesFile maps merchant names to categories.
	CategoriesFile = "categories.json"
	// RulesFile maps regex patterns to categories, optionally split by
	// transaction type.
	RulesFile = "categoryRules.json"
)

// CategoryInfo is one category assignment.
type CategoryInfo struct {
	Category    string `json:"category"`
	SubCategory string `json:"subCategory"`
}

type merchantEntry struct {
	lowerName string
	info      CategoryInfo
}

// compiledRule is one precompiled pattern with its per-type assignments.
// A rule without DEBIT/CREDIT sub-rules applies to both types.
type compiledRule struct {
	pattern *regexp.Regexp
	byType  map[string]*CategoryInfo
}

// Categorizer matches transactions against merchants and rules loaded
// once at construction. Merchant names are tried longest first so that
// "Amazon Pay" wins over "Amazon"; rules keep their configuration order.
type Categorizer struct {
	merchants []merchantEntry
	rules     []compiledRule
	auditPath string
	log       zerolog.Logger
}

// Load builds a Categorizer from the JSON documents in configDir.
// Uncategorized transactions are written to auditPath for manual review.
func Load(log zerolog.Logger, configDir, auditPath string) *Categorizer {
	c := &Categorizer{auditPath: auditPath, log: log}

	var categories map[string]CategoryInfo
	if data, ok := readConfig(log, filepath.Join(configDir, CategoriesFile)); ok {
		if err := json.Unmarshal(data, &categories); err != nil {
			log.Error().Err(err).Msg("failed to parse merchant categories")
		}
	}
	for name, info := range categories {
		c.merchants = append(c.merchants, merchantEntry{lowerName: strings.ToLower(name), info: info})
	}
	// Longest name first; ties broken by name for determinism.
	sort.Slice(c.merchants, func(i, j int) bool {
		if len(c.merchants[i].lowerName) != len(c.merchants[j].lowerName) {
			return len(c.merchants[i].lowerName) > len(c.merchants[j].lowerName)
		}
		return c.merchants[i].lowerName < c.merchants[j].lowerName
	})

	if data, ok := readConfig(log, filepath.Join(configDir, RulesFile)); ok {
		rules, err := compileRules(log, data)
		if err != nil {
			log.Error().Err(err).Msg("failed to parse category rules")
		}
		c.rules = rules
	}

	return c
}

func readConfig(log zerolog.Logger, path string) ([]byte, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn().Str("path", path).Msg("config file not found")
		return nil, false
	}
	return data, true
}

// compileRules decodes the rule document with a token stream so that the
// JSON key order, which doubles as the rule evaluation order, is
// preserved.
func compileRules(log zerolog.Logger, data []byte) ([]compiledRule, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("rules document must be a JSON object")
	}

	var rules []compiledRule
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return rules, err
		}
		pattern, _ := keyTok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return rules, err
		}

		compiled, err := regexp.Compile("(?i)" + pattern)
		if err != nil {
			log.Error().Str("pattern", pattern).Err(err).Msg("invalid rule pattern, skipping")
			continue
		}

		rules = append(rules, compiledRule{
			pattern: compiled,
			byType:  normalizeRule(raw),
		})
	}
	return rules, nil
}

// normalizeRule turns either rule shape into a per-type map: a plain
// {category, subCategory} object applies to both DEBIT and CREDIT, while a
// {DEBIT: {...}, CREDIT: {...}} object keeps only the types it defines.
func normalizeRule(raw json.RawMessage) map[string]*CategoryInfo {
	var keyed map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keyed); err != nil {
		return nil
	}

	byType := map[string]*CategoryInfo{}
	_, hasDebit := keyed[models.TypeDebit]
	_, hasCredit := keyed[models.TypeCredit]
	if hasDebit || hasCredit {
		for _, txType := range []string{models.TypeDebit, models.TypeCredit} {
			sub, ok := keyed[txType]
			if !ok {
				continue
			}
			var info CategoryInfo
			if err := json.Unmarshal(sub, &info); err == nil {
				byType[txType] = &info
			}
		}
		return byType
	}

	var info CategoryInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return nil
	}
	byType[models.TypeDebit] = &info
	byType[models.TypeCredit] = &info
	return byType
}

// Categorize annotates every transaction with a category and subCategory:
// merchant substring match first, then the regex rules in configuration
// order, then the "Uncategorized"/"Needs Review" fallback. Transactions
// left uncategorized are also written to the audit log.
func (c *Categorizer) Categorize(transactions []models.Transaction) []models.Transaction {
	for i := range transactions {
		tx := &transactions[i]
		descLower := strings.ToLower(tx.Description)
		txType := strings.ToUpper(tx.TransactionType)
		if txType == "" {
			txType = models.TypeDebit
		}

		if c.matchMerchant(tx, descLower) {
			continue
		}
		if c.matchRule(tx, descLower, txType) {
			continue
		}

		tx.Category = "Uncategorized"
		tx.SubCategory = "Needs Review"
	}

	c.logUncategorized(transactions)
	return transactions
}

func (c *Categorizer) matchMerchant(tx *models.Transaction, descLower string) bool {
	for _, m := range c.merchants {
		if strings.Contains(descLower, m.lowerName) {
			tx.Category = m.info.Category
			tx.SubCategory = m.info.SubCategory
			return true
		}
	}
	return false
}

func (c *Categorizer) matchRule(tx *models.Transaction, descLower, txType string) bool {
	for _, rule := range c.rules {
		if !rule.pattern.MatchString(descLower) {
			continue
		}
		info := rule.byType[txType]
		if info == nil {
			continue
		}
		tx.Category = info.Category
		tx.SubCategory = info.SubCategory
		return true
	}
	return false
}

// logUncategorized overwrites the audit CSV with every transaction that
// ended up uncategorized in this batch. Audit failures are logged, never
// propagated; the categorized data is unaffected.
func (c *Categorizer) logUncategorized(transactions []models.Transaction) {
	var uncategorized []models.Transaction
	for _, tx := range transactions {
		if tx.Category == "Uncategorized" {
			uncategorized = append(uncategorized, tx)
		}
	}
	if len(uncategorized) == 0 || c.auditPath == "" {
		return
	}

	if err := os.MkdirAll(filepath.Dir(c.auditPath), 0o755); err != nil {
		c.log.Error().Err(err).Msg("failed to create audit log directory")
		return
	}
	f, err := os.Create(c.auditPath)
	if err != nil {
		c.log.Error().Err(err).Msg("failed to write uncategorized audit log")
		return
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	w.Write([]string{
		"date", "description", "amount", "transactionType",
		"cardNumber", "cardHolderName", "sourceBank", "statementDate", "parserUsed",
	})
	for _, tx := range uncategorized {
		w.Write([]string{
			tx.Date,
			tx.Description,
			fmt.Sprintf("%.2f", tx.Amount),
			tx.TransactionType,
			tx.CardNumber,
			tx.CardHolderName,
			string(tx.SourceBank),
			tx.StatementDate,
			tx.ParserUsed,
		})
	}

	c.log.Info().Int("count", len(uncategorized)).Str("path", c.auditPath).
		Msg("uncategorized transactions logged for review")
}
