// Package contact implements the contact-submission pipeline.
//
// The service layer owns the whole flow: validate, persist (the durability
// boundary), rate-check, and fan out the two notification emails. It depends
// on the repository interface defined in this package and should never
// import from api/.
//
// The repository implementation lives in repository/postgres/.
package contact
