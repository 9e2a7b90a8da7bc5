// Package analyze provides the runtime type reflection used by the mapper.
//
// It turns a struct (or pointer-to-struct) reflect.Type into an ordered,
// immutable Shape of exported field descriptors and caches the result, so
// repeated synthesis over the same types only pays for reflection once.
//
// Key types:
//   - Shape: the record type, its struct type and its ordered fields
//   - FieldDescriptor: field name, declared type, value-type classification, index path and tag
package analyze
