// Package transform converts CEDAR's JSON-LD flavored template and instance
// documents into the flat, typed structure defined in pkg/model.
//
// The two entry points are independent: Template walks a template's declared
// UI order into a simplified tree, Instance strips JSON-LD metadata from a
// filled-in record. Both own their input and output for the duration of a
// single call and keep no state across calls. The only I/O in the package is
// the optional branch resolution against BioPortal.
package transform
