package konst

import (
	"fmt"

	"vlower/internal/ty"
)

// Default returns the implicit initial value of an object of type id: the
// leftmost value of scalar types (T'LEFT), null for access types. Composite
// types have no folded aggregate representation yet and also yield null.
func Default(tab *ty.Table, id ty.TypeID) (Const, error) {
	resolved, err := tab.Deref(id)
	if err != nil {
		return Const{}, err
	}
	tt, _ := tab.Lookup(resolved)
	switch tt.Kind {
	case ty.KindInt:
		return Int(tt.Range.Left, resolved), nil
	case ty.KindUnboundedInt, ty.KindUniversalInt:
		return IntFrom(0, ty.NoTypeID), nil
	case ty.KindEnum:
		return Enum(tt.Decl, 0), nil
	case ty.KindPhysical:
		return Int(tt.Range.Left, ty.NoTypeID), nil
	case ty.KindNull, ty.KindAccess, ty.KindArray, ty.KindRecord, ty.KindFile:
		return Null(), nil
	default:
		return Const{}, fmt.Errorf("konst: no default value for %s type `%s`", tt.Kind, tab.Display(resolved))
	}
}
