// Package documentregistry keeps metadata for an association's governing
// documents: bylaws, CC&Rs, covenants, and board rules. Documents marked
// current back the legal references elections cite in compliance checks.
package documentregistry
