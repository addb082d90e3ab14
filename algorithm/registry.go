package algorithm

import (
	"fmt"
)

// Config declares one named encryptor.
type Config struct {
	Type  string `yaml:"type"`
	Props Props  `yaml:"props"`
}

// Registry maps encryptor names to algorithms. It is built once and never
// mutated, so it is safe for concurrent use.
//
// Every algorithm held by the Registry is wrapped with the configured
// FailurePolicy.
type Registry struct {
	algorithms map[string]*guardedAlgorithm
	assisted   map[string]*guardedAssisted
}

// NewRegistry creates every configured algorithm. Key material is resolved
// here; a missing or invalid key fails the whole registry.
func NewRegistry(configs map[string]Config, opts ...Option) (*Registry, error) {
	cfg := newConfig(opts)
	r := &Registry{
		algorithms: make(map[string]*guardedAlgorithm),
		assisted:   make(map[string]*guardedAssisted),
	}
	for _, name := range sortedMapKeys(configs) {
		c := configs[name]
		a, err := create(c.Type, c.Props, cfg)
		if err != nil {
			return nil, fmt.Errorf("encryptor %q: %w", name, err)
		}
		g := guard{name: name, policy: cfg.policy, logger: cfg.logger}
		switch alg := a.(type) {
		case Algorithm:
			g.typ = alg.Type()
			r.algorithms[name] = &guardedAlgorithm{guard: g, inner: alg}
			r.assisted[name] = &guardedAssisted{guard: g, inner: encryptingDigest{alg}}
		case AssistedQueryAlgorithm:
			g.typ = alg.Type()
			r.assisted[name] = &guardedAssisted{guard: g, inner: alg}
		default:
			return nil, fmt.Errorf("encryptor %q: %w", name, ErrKindMismatch)
		}
	}
	return r, nil
}

// Names returns every registered encryptor name, sorted.
func (r *Registry) Names() []string {
	return sortedMapKeys(r.assisted)
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.assisted[name]
	return ok
}

// Find returns the reversible algorithm registered under name.
func (r *Registry) Find(name string) (Algorithm, bool) {
	a, ok := r.algorithms[name]
	if !ok {
		return nil, false
	}
	return a, true
}

// FindAssisted returns the algorithm used to fill assisted-query columns.
// A reversible algorithm qualifies and digests by encrypting.
func (r *Registry) FindAssisted(name string) (AssistedQueryAlgorithm, bool) {
	a, ok := r.assisted[name]
	if !ok {
		return nil, false
	}
	return a, true
}

// IsDeterministic reports whether the named algorithm always produces the
// same value for the same input, so its output can be compared in SQL.
// Unknown names are the identity and count as deterministic.
func (r *Registry) IsDeterministic(name string) bool {
	if a, ok := r.algorithms[name]; ok {
		return IsDeterministic(a.inner)
	}
	if a, ok := r.assisted[name]; ok {
		return IsDeterministic(a.inner)
	}
	return true
}

// Encrypt encrypts v with the named algorithm. An unknown name returns v.
func (r *Registry) Encrypt(name string, v any) (any, error) {
	a, ok := r.algorithms[name]
	if !ok {
		return v, nil
	}
	return a.Encrypt(v)
}

// Decrypt decrypts v with the named algorithm. An unknown name returns v.
func (r *Registry) Decrypt(name string, v any) (any, error) {
	a, ok := r.algorithms[name]
	if !ok {
		return v, nil
	}
	return a.Decrypt(v)
}

// Digest computes the assisted-query value of v. An unknown name returns v.
func (r *Registry) Digest(name string, v any) (any, error) {
	a, ok := r.assisted[name]
	if !ok {
		return v, nil
	}
	return a.Digest(v)
}

// NeedsRotation reports whether a stored cipher value was written with a key
// other than the algorithm's current default. Algorithms without embedded key
// ids never need rotation.
func (r *Registry) NeedsRotation(name string, v any) bool {
	a, ok := r.algorithms[name]
	if !ok {
		return false
	}
	rot, ok := a.inner.(rotator)
	return ok && rot.NeedsRotation(v)
}

// Rotate re-encrypts a stored cipher value with the current default key.
// Values that do not need rotation are returned unchanged.
func (r *Registry) Rotate(name string, v any) (any, error) {
	a, ok := r.algorithms[name]
	if !ok {
		return v, nil
	}
	rot, ok := a.inner.(rotator)
	if !ok {
		return v, nil
	}
	out, err := rot.Rotate(v)
	if err != nil {
		return a.fail("rotate", v, err)
	}
	return out, nil
}
