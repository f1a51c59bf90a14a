package codegen

import (
	"fmt"

	"fortio.org/safecast"

	"vlower/internal/diag"
	"vlower/internal/hir"
	"vlower/internal/llhd"
	"vlower/internal/source"
	"vlower/internal/ty"
)

// MapType maps a resolved type to its IR type. Named indirections are
// stripped first; the remaining kinds map as follows:
//
//	null                      void
//	integer L to/downto R     iN, N = bits of the range distance; null range is void
//	enumeration               nK, K = literal count
//	access T                  T*
//	array                     nested [n x ...], leftmost index outermost
//	file                      i32
//	record                    {fields...}
func (c *Context) MapType(id ty.TypeID) (*llhd.Type, error) {
	tab := c.scope.Types()
	resolved, err := c.scope.Deref(id)
	if err != nil {
		return nil, c.defect(source.NoSpan, "cannot resolve type #%d: %v", id, err)
	}
	tt, ok := tab.Lookup(resolved)
	if !ok {
		return nil, c.defect(source.NoSpan, "unknown type #%d", resolved)
	}

	switch tt.Kind {
	case ty.KindNull:
		return llhd.VoidType(), nil
	case ty.KindInt:
		w, ok := intWidth(tt.Range)
		if !ok {
			return llhd.VoidType(), nil
		}
		return llhd.IntType(w), nil
	case ty.KindEnum:
		n, err := c.enumLen(tt.Decl)
		if err != nil {
			return nil, err
		}
		return llhd.EnumType(n), nil
	case ty.KindPhysical:
		return nil, c.userError(diag.CgPhysicalType, source.NoSpan,
			fmt.Sprintf("cannot generate code for physical type `%s`", tab.Display(resolved)))
	case ty.KindAccess:
		inner, err := c.MapType(tt.Target)
		if err != nil {
			return nil, err
		}
		return llhd.PointerType(inner), nil
	case ty.KindArray:
		return c.mapArray(resolved, tt)
	case ty.KindFile:
		return llhd.IntType(32), nil
	case ty.KindRecord:
		fields := make([]*llhd.Type, 0, len(tt.Fields))
		for _, f := range tt.Fields {
			ft, err := c.MapType(f.Type)
			if err != nil {
				return nil, err
			}
			fields = append(fields, ft)
		}
		return llhd.StructType(fields), nil
	case ty.KindSubprog:
		return nil, c.unimplemented("subprogram type", source.NoSpan)
	case ty.KindNamed, ty.KindUnboundedInt, ty.KindUniversalInt:
		return nil, c.defect(source.NoSpan, "%s type `%s` reached code generation", tt.Kind, tab.Display(resolved))
	default:
		return nil, c.defect(source.NoSpan, "unexpected type kind %s", tt.Kind)
	}
}

// mapArray folds the index list right to left around the element type, so
// `array (A, B) of E` becomes [|A| x [|B| x E]].
func (c *Context) mapArray(id ty.TypeID, tt *ty.Type) (*llhd.Type, error) {
	tab := c.scope.Types()
	out, err := c.MapType(tt.Elem)
	if err != nil {
		return nil, err
	}
	for i := len(tt.Indices) - 1; i >= 0; i-- {
		idx := tt.Indices[i]
		if idx.Unbounded {
			return nil, c.userError(diag.CgUnboundedArray, source.NoSpan,
				fmt.Sprintf("type `%s` is unbounded", tab.Display(id)))
		}
		idxID, err := c.scope.Deref(idx.Type)
		if err != nil {
			return nil, c.defect(source.NoSpan, "cannot resolve index type #%d: %v", idx.Type, err)
		}
		it, ok := tab.Lookup(idxID)
		if !ok {
			return nil, c.defect(source.NoSpan, "unknown index type #%d", idxID)
		}

		var n int
		switch it.Kind {
		case ty.KindInt:
			size := it.Range.Len()
			if size.Sign() <= 0 {
				return llhd.VoidType(), nil
			}
			if !size.IsInt64() {
				return nil, c.tooLarge(tab.Display(idxID), size.String())
			}
			n, err = safecast.Conv[int](size.Int64())
			if err != nil {
				return nil, c.tooLarge(tab.Display(idxID), size.String())
			}
		case ty.KindEnum:
			n, err = c.enumLen(it.Decl)
			if err != nil {
				return nil, err
			}
		default:
			return nil, c.userError(diag.CgInvalidArrayIndex, source.NoSpan,
				fmt.Sprintf("`%s` is an invalid array index type", tab.Display(idxID)))
		}
		out = llhd.ArrayType(n, out)
	}
	return out, nil
}

func (c *Context) tooLarge(index, size string) error {
	return c.userError(diag.CgArrayIndexTooLarge, source.NoSpan,
		fmt.Sprintf("array index `%s` is too large; %s elements", index, size))
}

// enumLen returns the number of literals declared by the enumeration type
// declaration decl.
func (c *Context) enumLen(decl hir.NodeID) (int, error) {
	td, err := c.scope.TypeDecl(decl)
	if err != nil {
		return 0, c.defect(c.scope.Span(decl), "enumeration type declaration #%d: %v", decl, err)
	}
	if td.Data == nil || td.Data.Kind != hir.TypeDataEnum {
		return 0, c.defect(td.Span, "type declaration `%s` does not declare enumeration literals", td.Name)
	}
	return len(td.Data.Literals), nil
}

// intWidth returns the bit width of an integer range, false for null ranges.
func intWidth(r ty.Range) (int, bool) {
	diff := r.Diff()
	if diff.Sign() < 0 {
		return 0, false
	}
	return diff.BitLen(), true
}
