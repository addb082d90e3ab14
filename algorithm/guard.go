package algorithm

import (
	"github.com/sirupsen/logrus"
)

// guard applies the FailurePolicy to a single algorithm failure.
type guard struct {
	name   string
	typ    string
	policy FailurePolicy
	logger logrus.FieldLogger
}

// fail returns the original value under PassThrough and a *RuntimeError under
// Strict. The value itself is never logged.
func (g guard) fail(op string, original any, err error) (any, error) {
	if g.policy == Strict {
		return nil, &RuntimeError{Algorithm: g.name, Op: op, Err: err}
	}
	g.logger.WithFields(logrus.Fields{
		"encryptor": g.name,
		"type":      g.typ,
		"op":        op,
	}).WithError(err).Error("algorithm failure, value passed through unchanged")
	return original, nil
}

type guardedAlgorithm struct {
	guard
	inner Algorithm
}

func (g *guardedAlgorithm) Type() string { return g.inner.Type() }

func (g *guardedAlgorithm) Encrypt(plain any) (any, error) {
	out, err := g.inner.Encrypt(plain)
	if err != nil {
		return g.fail("encrypt", plain, err)
	}
	return out, nil
}

func (g *guardedAlgorithm) Decrypt(cipherValue any) (any, error) {
	out, err := g.inner.Decrypt(cipherValue)
	if err != nil {
		return g.fail("decrypt", cipherValue, err)
	}
	return out, nil
}

type guardedAssisted struct {
	guard
	inner AssistedQueryAlgorithm
}

func (g *guardedAssisted) Type() string { return g.inner.Type() }

func (g *guardedAssisted) Digest(plain any) (any, error) {
	out, err := g.inner.Digest(plain)
	if err != nil {
		return g.fail("digest", plain, err)
	}
	return out, nil
}

// encryptingDigest lets a reversible algorithm fill an assisted-query column.
// Only deterministic algorithms are useful in that role.
type encryptingDigest struct {
	Algorithm
}

func (e encryptingDigest) Digest(plain any) (any, error) {
	return e.Encrypt(plain)
}

func (e encryptingDigest) Randomized() bool { return !IsDeterministic(e.Algorithm) }
