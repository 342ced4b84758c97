package ast

// POUKind distinguishes the three program organization unit kinds
// spec.md's GLOSSARY names.
type POUKind int

const (
	KindProgram POUKind = iota
	KindFunction
	KindFunctionBlock
)

// VarBlockKind distinguishes VAR block flavours.
type VarBlockKind int

const (
	VarLocal VarBlockKind = iota
	VarInput
	VarOutput
	VarInOut
	VarGlobal
	VarTemp
)

// VarDecl is one `name : type;` entry inside a VAR block.
type VarDecl struct {
	Name     string
	TypeName string
	Location SourceRange
}

// VarBlock is one `VAR ... END_VAR` group.
type VarBlock struct {
	Kind      VarBlockKind
	Variables []VarDecl
	Location  SourceRange
}

// POU is a PROGRAM, FUNCTION, or FUNCTION_BLOCK declaration: its
// signature plus its statement body. ReturnType is nil unless Kind is
// KindFunction and the source declared one.
type POU struct {
	Name       string
	Kind       POUKind
	ReturnType *string
	VarBlocks  []VarBlock
	Body       []Statement
	Location   SourceRange
}
