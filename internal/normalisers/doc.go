// Package normalisers holds one subpackage per remote catalog vendor. Each
// normaliser implements driven.EntityMapper for the records its connector
// fetches.
package normalisers
