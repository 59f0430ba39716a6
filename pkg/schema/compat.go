package schema

import "fmt"

// ChangeKind classifies one difference DiffTypeHashes found between two
// versions of a schema.
type ChangeKind int

const (
	// HashChanged indicates a type's hash differs; every other change kind
	// below is always accompanied by a HashChanged entry for the same type.
	HashChanged ChangeKind = iota
	// StructRemoved indicates a struct present in the old schema is gone.
	StructRemoved
	// StructAdded indicates a struct present in the new schema is new.
	StructAdded
	// EnumRemoved indicates an enum present in the old schema is gone.
	EnumRemoved
	// EnumAdded indicates an enum present in the new schema is new.
	EnumAdded
	// MemberAdded indicates a struct gained a member.
	MemberAdded
	// MemberRemoved indicates a struct lost a member.
	MemberRemoved
	// MemberReordered indicates two members common to both versions swapped
	// wire position, which alone changes both layout and hash.
	MemberReordered
	// MemberRetyped indicates a member's scalar or named type changed.
	MemberRetyped
	// MemberRedimensioned indicates a member's array dimensions changed.
	MemberRedimensioned
	// ConstantChanged indicates a constant's type or value changed.
	ConstantChanged
	// EnumValueChanged indicates an enum value's integer changed names or
	// an enum value was added/removed.
	EnumValueChanged
)

func (k ChangeKind) String() string {
	switch k {
	case HashChanged:
		return "hash changed"
	case StructRemoved:
		return "struct removed"
	case StructAdded:
		return "struct added"
	case EnumRemoved:
		return "enum removed"
	case EnumAdded:
		return "enum added"
	case MemberAdded:
		return "member added"
	case MemberRemoved:
		return "member removed"
	case MemberReordered:
		return "member reordered"
	case MemberRetyped:
		return "member retyped"
	case MemberRedimensioned:
		return "member redimensioned"
	case ConstantChanged:
		return "constant changed"
	case EnumValueChanged:
		return "enum value changed"
	default:
		return "unknown change"
	}
}

// HashChange is one difference between an old and new version of a type.
type HashChange struct {
	Kind     ChangeKind
	TypeName string
	Message  string
}

func (c HashChange) String() string {
	return fmt.Sprintf("%s: %s: %s", c.TypeName, c.Kind, c.Message)
}

// DiffTypeHashes compares every struct and enum common to oldSchema and
// newSchema (matched by name, both under pkg) and reports why its hash
// changed, if it did. Since LCM has no field numbers, wire compatibility is
// binary per type: any hash change means old and new readers reject each
// other's frames outright (spec §7 HASH_MISMATCH), so this reports
// explanatory detail rather than a breaking/non-breaking verdict.
func DiffTypeHashes(pkg string, oldSchema, newSchema *Schema) []HashChange {
	oldH, newH := NewHasher(), NewHasher()
	oldH.AddSchema(pkg, oldSchema)
	newH.AddSchema(pkg, newSchema)

	var changes []HashChange

	oldStructs := make(map[string]*Struct)
	for _, s := range oldSchema.Structs {
		oldStructs[s.Name] = s
	}
	newStructs := make(map[string]*Struct)
	for _, s := range newSchema.Structs {
		newStructs[s.Name] = s
	}

	for name, oldS := range oldStructs {
		newS, ok := newStructs[name]
		if !ok {
			changes = append(changes, HashChange{Kind: StructRemoved, TypeName: name,
				Message: fmt.Sprintf("struct %q was removed", name)})
			continue
		}
		oldHash, _ := oldH.HashStruct(pkg, name)
		newHash, _ := newH.HashStruct(pkg, name)
		if oldHash == newHash {
			continue
		}
		changes = append(changes, HashChange{Kind: HashChanged, TypeName: name,
			Message: fmt.Sprintf("hash changed from 0x%016x to 0x%016x", oldHash, newHash)})
		changes = append(changes, diffStructMembers(name, oldS, newS)...)
		changes = append(changes, diffStructConstants(name, oldS, newS)...)
	}
	for name := range newStructs {
		if _, ok := oldStructs[name]; !ok {
			changes = append(changes, HashChange{Kind: StructAdded, TypeName: name,
				Message: fmt.Sprintf("struct %q was added", name)})
		}
	}

	oldEnums := make(map[string]*Enum)
	for _, e := range oldSchema.Enums {
		oldEnums[e.Name] = e
	}
	newEnums := make(map[string]*Enum)
	for _, e := range newSchema.Enums {
		newEnums[e.Name] = e
	}

	for name, oldE := range oldEnums {
		newE, ok := newEnums[name]
		if !ok {
			changes = append(changes, HashChange{Kind: EnumRemoved, TypeName: name,
				Message: fmt.Sprintf("enum %q was removed", name)})
			continue
		}
		if oldE.Hash() == newE.Hash() {
			continue
		}
		changes = append(changes, HashChange{Kind: HashChanged, TypeName: name,
			Message: fmt.Sprintf("hash changed from 0x%016x to 0x%016x", oldE.Hash(), newE.Hash())})
		changes = append(changes, diffEnumValues(name, oldE, newE)...)
	}
	for name := range newEnums {
		if _, ok := oldEnums[name]; !ok {
			changes = append(changes, HashChange{Kind: EnumAdded, TypeName: name,
				Message: fmt.Sprintf("enum %q was added", name)})
		}
	}

	return changes
}

func diffStructMembers(structName string, oldS, newS *Struct) []HashChange {
	var changes []HashChange

	oldByName := make(map[string]*Member)
	oldIndex := make(map[string]int)
	for i, m := range oldS.Members {
		oldByName[m.Name] = m
		oldIndex[m.Name] = i
	}
	newByName := make(map[string]*Member)
	newIndex := make(map[string]int)
	for i, m := range newS.Members {
		newByName[m.Name] = m
		newIndex[m.Name] = i
	}

	for name, oldM := range oldByName {
		newM, ok := newByName[name]
		if !ok {
			changes = append(changes, HashChange{Kind: MemberRemoved, TypeName: structName,
				Message: fmt.Sprintf("member %q was removed", name)})
			continue
		}
		if oldM.Type.String() != newM.Type.String() {
			changes = append(changes, HashChange{Kind: MemberRetyped, TypeName: structName,
				Message: fmt.Sprintf("member %q type changed from %s to %s", name, oldM.Type.String(), newM.Type.String())})
		}
		if !sameDims(oldM.Dims, newM.Dims) {
			changes = append(changes, HashChange{Kind: MemberRedimensioned, TypeName: structName,
				Message: fmt.Sprintf("member %q dimensions changed", name)})
		}
	}
	for name := range newByName {
		if _, ok := oldByName[name]; !ok {
			changes = append(changes, HashChange{Kind: MemberAdded, TypeName: structName,
				Message: fmt.Sprintf("member %q was added", name)})
		}
	}

	// Reorder detection: among members common to both versions, do any two
	// swap relative position? Member order is wire order, so this alone
	// changes the hash even with identical names, types, and dimensions.
	var common []string
	for name := range oldByName {
		if _, ok := newByName[name]; ok {
			common = append(common, name)
		}
	}
	for i := 0; i < len(common); i++ {
		for j := i + 1; j < len(common); j++ {
			a, b := common[i], common[j]
			oldAFirst := oldIndex[a] < oldIndex[b]
			newAFirst := newIndex[a] < newIndex[b]
			if oldAFirst != newAFirst {
				changes = append(changes, HashChange{Kind: MemberReordered, TypeName: structName,
					Message: fmt.Sprintf("members %q and %q changed relative order", a, b)})
			}
		}
	}

	return changes
}

func sameDims(a, b []Dimension) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Kind != b[i].Kind || a[i].Size != b[i].Size || a[i].Field != b[i].Field {
			return false
		}
	}
	return true
}

func diffStructConstants(structName string, oldS, newS *Struct) []HashChange {
	var changes []HashChange

	oldByName := make(map[string]*Constant)
	for _, c := range oldS.Constants {
		oldByName[c.Name] = c
	}
	newByName := make(map[string]*Constant)
	for _, c := range newS.Constants {
		newByName[c.Name] = c
	}

	for name, oldC := range oldByName {
		newC, ok := newByName[name]
		if !ok {
			changes = append(changes, HashChange{Kind: ConstantChanged, TypeName: structName,
				Message: fmt.Sprintf("constant %q was removed", name)})
			continue
		}
		if oldC.Type != newC.Type || oldC.Value != newC.Value {
			changes = append(changes, HashChange{Kind: ConstantChanged, TypeName: structName,
				Message: fmt.Sprintf("constant %q changed from %s %s to %s %s", name, oldC.Type, oldC.Value, newC.Type, newC.Value)})
		}
	}
	for name := range newByName {
		if _, ok := oldByName[name]; !ok {
			changes = append(changes, HashChange{Kind: ConstantChanged, TypeName: structName,
				Message: fmt.Sprintf("constant %q was added", name)})
		}
	}

	return changes
}

func diffEnumValues(enumName string, oldE, newE *Enum) []HashChange {
	var changes []HashChange

	oldByNum := make(map[int32]string)
	for _, v := range oldE.Values {
		oldByNum[v.Value] = v.Name
	}
	newByNum := make(map[int32]string)
	for _, v := range newE.Values {
		newByNum[v.Value] = v.Name
	}

	for num, oldName := range oldByNum {
		newName, ok := newByNum[num]
		if !ok {
			changes = append(changes, HashChange{Kind: EnumValueChanged, TypeName: enumName,
				Message: fmt.Sprintf("value %d (%q) was removed", num, oldName)})
			continue
		}
		if oldName != newName {
			changes = append(changes, HashChange{Kind: EnumValueChanged, TypeName: enumName,
				Message: fmt.Sprintf("value %d renamed from %q to %q", num, oldName, newName)})
		}
	}
	for num, newName := range newByNum {
		if _, ok := oldByNum[num]; !ok {
			changes = append(changes, HashChange{Kind: EnumValueChanged, TypeName: enumName,
				Message: fmt.Sprintf("value %d (%q) was added", num, newName)})
		}
	}

	return changes
}
