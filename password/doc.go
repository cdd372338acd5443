// Package password hashes and verifies account directory secrets with Argon2id.
//
// Directory entries may carry either a plaintext secret (the reference demo
// behavior) or a PHC-encoded hash produced by [Argon2.Hash]:
//
//	$argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<hash>
//
// The package does not store secrets and does not log them.
package password
