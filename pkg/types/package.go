package types

// TypeOrigin records the package version that first defined a struct.
// Upgraded packages keep their original types anchored to the
// defining package, which is what canonical type tags point at.
type TypeOrigin struct {
	ModuleName string `json:"moduleName"`
	StructName string `json:"structName"`
	Package    string `json:"package"`
}

// MovePackage is the on-chain metadata of a published package needed
// to canonicalize type tags: its storage address, version and
// type-origin table.
type MovePackage struct {
	Address     string       `json:"address"`
	Version     Uint64       `json:"version"`
	Modules     []string     `json:"modules"`
	TypeOrigins []TypeOrigin `json:"typeOriginTable"`
}

// OriginOf returns the defining package address for a struct declared
// in this package, falling back to the package's own address when the
// origin table has no entry.
func (p *MovePackage) OriginOf(module, name string) string {
	for _, o := range p.TypeOrigins {
		if o.ModuleName == module && o.StructName == name {
			return NormalizeAddress(o.Package)
		}
	}
	return NormalizeAddress(p.Address)
}
