// Package mapping provides YAML mapping profiles: declarative templates,
// exclusions and flags for the mapper, keyed by source and target type.
//
// # Schema Overview
//
//	version: "1"
//	mappings:
//	  - source: store.Order
//	    target: warehouse.Order
//	    # Simplified 1:1 renames, source path -> target field (highest priority)
//	    121:
//	      OrderID: ID
//	      CustomerName: Customer
//	    # Explicit field rules
//	    fields:
//	      - target: Status
//	        default: pending
//	      - target: Label
//	        source: [CustomerName, OrderID]
//	        transform: label
//	    # Target fields to leave unbound, template rules included
//	    ignore:
//	      - InternalNote
//	    fault_isolation: true
//	    conversions: safe    # all (default), safe or none
//
// Renames and field rules become the bindings of a template; every other
// target field is left to synthesis, which binds it by exact name.
//
// # Priority Order
//
//  1. "121" renames (highest)
//  2. "fields" rules
//  3. "ignore" list, which also drops rules 1 and 2 for the same field
//  4. automatic same-name bindings (lowest)
//
// Transforms are Go functions registered by name in a Registry together
// with the types a profile may refer to.
package mapping
