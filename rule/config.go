package rule

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ai8future/encryptsql/algorithm"
)

// Config is the YAML form of an encrypt rule.
//
//	queryWithCipherColumn: true
//	encryptors:
//	  aes_encryptor:
//	    type: AES
//	    props:
//	      aes-key-value: 123456abc
//	tables:
//	  t_user:
//	    columns:
//	      mobile:
//	        cipherColumn: mobile_cipher
//	        assistedQueryColumn: mobile_assisted
//	        encryptorName: aes_encryptor
type Config struct {
	QueryWithCipherColumn *bool                       `yaml:"queryWithCipherColumn"`
	Encryptors            map[string]algorithm.Config `yaml:"encryptors"`
	Tables                map[string]TableConfig      `yaml:"tables"`
}

// TableConfig configures the encrypted columns of one table.
type TableConfig struct {
	QueryWithCipherColumn *bool                   `yaml:"queryWithCipherColumn"`
	Columns               map[string]ColumnConfig `yaml:"columns"`
}

// ColumnConfig maps one logical column to its physical columns.
type ColumnConfig struct {
	CipherColumn               string `yaml:"cipherColumn"`
	AssistedQueryColumn        string `yaml:"assistedQueryColumn"`
	PlainColumn                string `yaml:"plainColumn"`
	EncryptorName              string `yaml:"encryptorName"`
	AssistedQueryEncryptorName string `yaml:"assistedQueryEncryptorName"`
}

// LoadConfig decodes a YAML rule configuration. Unknown fields are rejected.
// Empty input yields an empty Config.
func LoadConfig(r io.Reader) (*Config, error) {
	cfg := &Config{}
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return cfg, nil
		}
		return nil, fmt.Errorf("rule: parse configuration: %w", err)
	}
	return cfg, nil
}

// LoadConfigFile reads and decodes a YAML rule configuration file.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("rule: read %s: %w", path, err)
	}
	return LoadConfig(bytes.NewReader(data))
}
