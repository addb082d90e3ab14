// Package rule holds the encrypt rule: which logical columns of which tables
// are encrypted, the physical columns backing them and the algorithms that
// produce their values.
package rule

import (
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ai8future/encryptsql/algorithm"
)

// Column describes how one logical column is stored.
type Column struct {
	Name                       string
	CipherColumn               string
	AssistedQueryColumn        string
	PlainColumn                string
	EncryptorName              string
	AssistedQueryEncryptorName string
}

// AssistedEncryptorName returns the encryptor filling the assisted-query
// column: the configured assisted encryptor, else the main encryptor.
func (c *Column) AssistedEncryptorName() string {
	if c.AssistedQueryEncryptorName != "" {
		return c.AssistedQueryEncryptorName
	}
	return c.EncryptorName
}

// Table is the encrypt configuration of one table.
type Table struct {
	name                  string
	queryWithCipherColumn *bool
	columns               map[string]*Column
	order                 []string
}

// Name returns the table name as configured.
func (t *Table) Name() string { return t.name }

// Column looks up a logical column, case-insensitively.
func (t *Table) Column(logical string) (*Column, bool) {
	c, ok := t.columns[strings.ToLower(logical)]
	return c, ok
}

// LogicalColumns returns the encrypted logical column names, sorted.
func (t *Table) LogicalColumns() []string {
	return append([]string(nil), t.order...)
}

// Rule is the immutable encrypt rule. It is safe for concurrent use.
type Rule struct {
	tables                map[string]*Table
	queryWithCipherColumn bool
	registry              *algorithm.Registry
}

// Option configures New.
type Option func(*options)

type options struct {
	logger logrus.FieldLogger
}

// WithLogger sets the logger. Default is logrus.StandardLogger().
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// New validates cfg against registry and builds the rule. Invalid
// configuration is reported as a *ConfigurationError.
func New(cfg *Config, registry *algorithm.Registry, opts ...Option) (*Rule, error) {
	o := &options{logger: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(o)
	}
	if cfg == nil {
		cfg = &Config{}
	}
	if registry == nil {
		var err error
		if registry, err = algorithm.NewRegistry(nil); err != nil {
			return nil, err
		}
	}

	r := &Rule{
		tables:                make(map[string]*Table, len(cfg.Tables)),
		queryWithCipherColumn: true,
		registry:              registry,
	}
	if cfg.QueryWithCipherColumn != nil {
		r.queryWithCipherColumn = *cfg.QueryWithCipherColumn
	}

	columns := 0
	for _, name := range sortedKeys(cfg.Tables) {
		tc := cfg.Tables[name]
		if err := validateTable(name, tc, registry); err != nil {
			return nil, &ConfigurationError{Section: "tables", Name: name, Err: err}
		}
		t := &Table{
			name:                  name,
			queryWithCipherColumn: tc.QueryWithCipherColumn,
			columns:               make(map[string]*Column, len(tc.Columns)),
		}
		for _, logical := range sortedKeys(tc.Columns) {
			cc := tc.Columns[logical]
			t.columns[strings.ToLower(logical)] = &Column{
				Name:                       logical,
				CipherColumn:               cc.CipherColumn,
				AssistedQueryColumn:        cc.AssistedQueryColumn,
				PlainColumn:                cc.PlainColumn,
				EncryptorName:              cc.EncryptorName,
				AssistedQueryEncryptorName: cc.AssistedQueryEncryptorName,
			}
			t.order = append(t.order, logical)
		}
		columns += len(t.columns)
		r.tables[strings.ToLower(name)] = t
	}

	o.logger.WithFields(logrus.Fields{
		"tables":                len(r.tables),
		"columns":               columns,
		"encryptors":            len(registry.Names()),
		"queryWithCipherColumn": r.queryWithCipherColumn,
	}).Debug("encrypt rule built")
	return r, nil
}

// NewRegistry creates the encryptors declared in cfg. Creation failures,
// such as missing key material, are reported as a *ConfigurationError.
func NewRegistry(cfg *Config, opts ...algorithm.Option) (*algorithm.Registry, error) {
	var encryptors map[string]algorithm.Config
	if cfg != nil {
		encryptors = cfg.Encryptors
	}
	registry, err := algorithm.NewRegistry(encryptors, opts...)
	if err != nil {
		return nil, &ConfigurationError{Section: "encryptors", Err: err}
	}
	return registry, nil
}

// Registry returns the algorithm registry the rule was built with.
func (r *Rule) Registry() *algorithm.Registry { return r.registry }

// Tables returns the configured table names, sorted.
func (r *Rule) Tables() []string {
	names := make([]string, 0, len(r.tables))
	for _, t := range r.tables {
		names = append(names, t.name)
	}
	sort.Strings(names)
	return names
}

// FindEncryptTable looks up a table, case-insensitively.
func (r *Rule) FindEncryptTable(table string) (*Table, bool) {
	t, ok := r.tables[strings.ToLower(table)]
	return t, ok
}

// FindColumn looks up the encrypt configuration of table.column.
func (r *Rule) FindColumn(table, column string) (*Column, bool) {
	t, ok := r.FindEncryptTable(table)
	if !ok {
		return nil, false
	}
	return t.Column(column)
}

// IsEncrypted reports whether table.column is an encrypted logical column.
func (r *Rule) IsEncrypted(table, column string) bool {
	_, ok := r.FindColumn(table, column)
	return ok
}

// FindEncryptor returns the reversible algorithm of table.column.
func (r *Rule) FindEncryptor(table, column string) (algorithm.Algorithm, bool) {
	c, ok := r.FindColumn(table, column)
	if !ok {
		return nil, false
	}
	return r.registry.Find(c.EncryptorName)
}

// FindAssistedQueryEncryptor returns the algorithm filling the assisted
// column of table.column; the main encryptor when none is configured.
func (r *Rule) FindAssistedQueryEncryptor(table, column string) (algorithm.AssistedQueryAlgorithm, bool) {
	c, ok := r.FindColumn(table, column)
	if !ok || c.AssistedQueryColumn == "" {
		return nil, false
	}
	return r.registry.FindAssisted(c.AssistedEncryptorName())
}

// CipherColumn returns the cipher column of table.column.
func (r *Rule) CipherColumn(table, column string) (string, error) {
	c, ok := r.FindColumn(table, column)
	if !ok {
		return "", &ConfigurationError{Section: "tables", Name: table + "." + column, Err: ErrColumnNotEncrypted}
	}
	return c.CipherColumn, nil
}

// FindAssistedQueryColumn returns the assisted-query column, if configured.
func (r *Rule) FindAssistedQueryColumn(table, column string) (string, bool) {
	c, ok := r.FindColumn(table, column)
	if !ok || c.AssistedQueryColumn == "" {
		return "", false
	}
	return c.AssistedQueryColumn, true
}

// FindPlainColumn returns the plain column, if configured.
func (r *Rule) FindPlainColumn(table, column string) (string, bool) {
	c, ok := r.FindColumn(table, column)
	if !ok || c.PlainColumn == "" {
		return "", false
	}
	return c.PlainColumn, true
}

// IsQueryWithCipherColumn reports whether reads of the table may use cipher
// or assisted columns. The table setting overrides the rule default.
func (r *Rule) IsQueryWithCipherColumn(table string) bool {
	if t, ok := r.FindEncryptTable(table); ok && t.queryWithCipherColumn != nil {
		return *t.queryWithCipherColumn
	}
	return r.queryWithCipherColumn
}

// EncryptValues encrypts plain values for the cipher column, preserving
// order. Values of unencrypted columns are returned unchanged.
func (r *Rule) EncryptValues(table, column string, plain []any) ([]any, error) {
	c, ok := r.FindColumn(table, column)
	if !ok {
		return append([]any(nil), plain...), nil
	}
	return transform(plain, func(v any) (any, error) { return r.registry.Encrypt(c.EncryptorName, v) })
}

// EncryptAssistedQueryValues computes assisted-query values, preserving
// order. Columns without an assisted column return the values unchanged.
func (r *Rule) EncryptAssistedQueryValues(table, column string, plain []any) ([]any, error) {
	c, ok := r.FindColumn(table, column)
	if !ok || c.AssistedQueryColumn == "" {
		return append([]any(nil), plain...), nil
	}
	return transform(plain, func(v any) (any, error) { return r.registry.Digest(c.AssistedEncryptorName(), v) })
}

// DecryptValues decrypts cipher column values, preserving order.
func (r *Rule) DecryptValues(table, column string, cipherValues []any) ([]any, error) {
	c, ok := r.FindColumn(table, column)
	if !ok {
		return append([]any(nil), cipherValues...), nil
	}
	return transform(cipherValues, func(v any) (any, error) { return r.registry.Decrypt(c.EncryptorName, v) })
}

func transform(in []any, fn func(any) (any, error)) ([]any, error) {
	out := make([]any, len(in))
	for i, v := range in {
		t, err := fn(v)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
