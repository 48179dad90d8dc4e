// Package wire defines the container schema exchanged with the machine
// controller and its protobuf wire encoding.
//
// Every frame on every channel carries exactly one Container. Optional
// scalar fields are pointers: nil means "not present on the wire", which
// is what lets incremental status updates say "only these fields changed".
// Repeated fields cannot express presence, so an empty slice and an absent
// field are the same thing.
//
// Encoding uses google.golang.org/protobuf/encoding/protowire directly
// against hand-maintained field tables instead of generated code. Field
// numbers are listed next to each struct field and must never be reused.
//
// Inbound containers are classified into a closed set of Message kinds by
// Classify; consumers branch on the kind with a type switch instead of
// testing for the presence of individual sub-messages.
package wire
