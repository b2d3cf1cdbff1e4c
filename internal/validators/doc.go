// Package validators is the catalog of cluster validation rules.
//
// Every validator is a pure function of explicit inputs returning zero or
// more [Result] values. Validators perform no I/O: facts such as instance
// type capabilities or security group rules are looked up by the caller and
// passed in. Each validator is identified by a [Type], which is what
// suppression rules refer to.
package validators
