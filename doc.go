// Package encryptsql rewrites SQL written against logical columns into SQL
// over encrypted physical columns, so column-level encryption is invisible
// to the application issuing the statement.
//
// Each encrypted logical column maps to a cipher column holding the
// reversible ciphertext, an optional assisted-query column holding a
// deterministic digest used for equality search, and an optional plain
// column that keeps cleartext during migrations.
//
// # Usage
//
// The Rewriter takes a parsed and bound statement (see package statement)
// and returns position-addressed tokens plus rewritten bind parameters.
// Applying the tokens to the original SQL text is left to the caller:
//
//	rw, err := encryptsql.LoadFile("encrypt.yaml",
//	    encryptsql.WithLogger(logger),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := rw.Rewrite(&statement.Context{Statement: stmt, DatabaseType: statement.MySQL}, args)
//	// res.Tokens edit the SQL text, res.Parameters replace args
//
// # Configuration
//
// Rules are YAML:
//
//	queryWithCipherColumn: true
//	encryptors:
//	  aes_encryptor:
//	    type: AES
//	    props:
//	      aes-key-value: 123456abc
//	  mobile_index:
//	    type: HMAC-SHA256
//	    props:
//	      hmac-key: index-secret
//	      normalizer: phone
//	tables:
//	  t_user:
//	    columns:
//	      mobile:
//	        cipherColumn: mobile_cipher
//	        assistedQueryColumn: mobile_assisted
//	        plainColumn: mobile_plain
//	        encryptorName: aes_encryptor
//	        assistedQueryEncryptorName: mobile_index
//
// Supported algorithm types are AES, MYSQL-AES, SECRETBOX, HMAC-SHA256 and
// BLAKE3. SECRETBOX may take its key from a KeyProvider instead of the
// configuration; see WithKeyProvider.
//
// # Reads
//
// A predicate on an encrypted column reads the plain column when the table
// sets queryWithCipherColumn to false and a plain column exists, otherwise
// the assisted-query column if configured, otherwise the cipher column.
// Only equality and IN comparisons can be rewritten against cipher or
// assisted-query columns; other comparisons fail with
// rewrite.ErrUnsupportedRewrite. SECRETBOX ciphertext is randomized, so a
// SECRETBOX column needs an assisted-query column to be searchable.
//
// # Failures
//
// By default a value that cannot be encrypted is logged and passed through
// unchanged. WithFailurePolicy(algorithm.Strict) fails the statement instead.
package encryptsql
