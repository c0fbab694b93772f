// Package cli implements the interactive terminal front-end of seedkeeper.
//
// Without a stored wallet the REPL drives the onboarding machine:
//
//	create      start creating a new wallet
//	import      enter an existing recovery phrase (hidden input)
//	password    choose the password of a new wallet
//	ack         confirm the phrase has been written down
//	confirm     answer the backup confirmation words
//	finalize    choose the password of an imported wallet
//	back        return to the previous step
//	done        leave the success screen
//	restore     restore a wallet from an S3 backup key
//
// With a stored wallet:
//
//	address     print the wallet address
//	unlock      decrypt and show the recovery phrase
//	backup      upload the encrypted credential to S3
//	reset       delete the stored wallet
//
// status, help and exit|quit are always available. Secrets are read without
// echo through golang.org/x/term and wiped after use.
package cli
