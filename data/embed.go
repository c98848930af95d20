package data

import (
	_ "embed"
)

// SeedDocument is the starter site document written by siteadmin init.
// Its admin.passwordHash is empty until a password is chosen.
//
//go:embed seed/data.json
var SeedDocument []byte

// SeedNotFoundPage is the starter 404 page.
//
//go:embed seed/404.html
var SeedNotFoundPage []byte
