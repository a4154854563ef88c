// Package password hashes sandbox account passwords with Argon2id.
//
// Hashes are PHC strings:
//
//	$argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<hash>
//
// Length and format rules belong to the register screen, not to this package.
package password
