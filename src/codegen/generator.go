package codegen

import (
	"tinygo.org/x/go-llvm"

	"stlcg/src/ast"
	"stlcg/src/codegen/irb"
	"stlcg/src/diagnostics"
	"stlcg/src/index"
	"stlcg/src/typesystem"
	"stlcg/src/util"
)

// VarSpec names one declared variable: a parameter, a local, or (by
// convention) the implicit return-value variable every FUNCTION gets,
// named identically to the FUNCTION itself, matching how IEC 61131-3
// functions return a value by assigning to a variable named after the
// function.
type VarSpec struct {
	Name string
	Type typesystem.TypeInfo
}

// PouSpec describes one PROGRAM/FUNCTION/FUNCTION_BLOCK's signature and
// body, the unit cmd/stlcg hands to DeclarePou/GenerateFunctionBody.
type PouSpec struct {
	Name       string
	Params     []VarSpec
	Locals     []VarSpec
	ReturnType *typesystem.TypeInfo // nil for PROGRAM/FUNCTION_BLOCK
	Body       []ast.Statement
}

// DeclarePou is the first of the two codegen passes: it declares spec's
// LLVM function, allocates stack storage for every parameter and local
// (storing incoming parameter values immediately, grounded on
// genFuncHeader in vslc/src/ir/llvm/transform.go), and registers every
// variable plus the POU's own signature with ib. It must run, for every
// POU in a compilation unit, before the Index is built — generation of
// any POU's body may reference any other POU by name (spec.md §4.3's
// Call handling), so every signature must already be known.
//
// It returns the function's entry block so a second pass can reposition
// the builder there and emit the body.
func DeclarePou(b *irb.Builder, ib *index.MapIndexBuilder, spec PouSpec) llvm.BasicBlock {
	hasReturn := spec.ReturnType != nil
	var retType llvm.Type
	if hasReturn {
		retType = typesystem.LLVMType(b.Ctx, *spec.ReturnType)
	} else {
		retType = b.Ctx.VoidType()
	}

	paramTypes := make([]llvm.Type, len(spec.Params))
	for i, p := range spec.Params {
		paramTypes[i] = typesystem.LLVMType(b.Ctx, p.Type)
	}

	fn := b.DeclareFunction(spec.Name, retType, paramTypes, false)
	entry := b.AppendBlock(fn, "entry")
	b.PositionAt(entry)

	ib.EnterPou(spec.Name)

	formals := irb.Params(fn)
	paramTypeMap := make(map[string]typesystem.TypeInfo, len(spec.Params))
	paramOrder := make([]string, len(spec.Params))
	for i, p := range spec.Params {
		formals[i].SetName(p.Name)
		ptr := b.Alloca(typesystem.LLVMType(b.Ctx, p.Type), p.Name)
		b.Store(ptr, formals[i])
		ib.DeclareVariable(p.Name, ptr, p.Type)
		paramTypeMap[p.Name] = p.Type
		paramOrder[i] = p.Name
	}

	for _, l := range spec.Locals {
		ptr := b.Alloca(typesystem.LLVMType(b.Ctx, l.Type), l.Name)
		ib.DeclareVariable(l.Name, ptr, l.Type)
	}

	if hasReturn {
		ptr := b.Alloca(retType, spec.Name)
		ib.DeclareVariable(spec.Name, ptr, *spec.ReturnType)
	}

	ib.ExitPou()
	ib.DeclarePou(index.PouDescriptor{
		Name:          spec.Name,
		Function:      fn,
		ParamOrder:    paramOrder,
		ParamTypes:    paramTypeMap,
		ReturnType:    derefOr(spec.ReturnType, typesystem.VOID),
		HasReturnType: hasReturn,
	})

	return entry
}

func derefOr(t *typesystem.TypeInfo, fallback typesystem.TypeInfo) typesystem.TypeInfo {
	if t == nil {
		return fallback
	}
	return *t
}

// GenerateFunctionBody is the second codegen pass: given the finished,
// read-only Index every POU's signature was registered with, emit spec's
// body and a terminating return. Safe to run concurrently across POUs,
// one Generator/Builder per goroutine, per spec.md §5 — as long as each
// goroutine owns a distinct *irb.Builder (a separate LLVM module/context)
// or the caller otherwise serialises access to a shared one.
func GenerateFunctionBody(b *irb.Builder, idx index.Index, acc diagnostics.Acceptor, opt util.GeneratorOptions, entry llvm.BasicBlock, spec PouSpec) {
	pou, ok := idx.FindPou(spec.Name)
	if !ok {
		acc.Error("internal error: POU "+spec.Name+" was not registered before body generation", ast.Undefined())
		return
	}

	fctx := FunctionContext{
		LinkingContext: spec.Name,
		Function:       pou.Function,
		ReturnType:     pou.ReturnType,
		HasReturnType:  pou.HasReturnType,
	}
	g := NewGenerator(b, idx, acc, opt, fctx)

	b.PositionAt(entry)
	g.GenerateBody(spec.Body)

	if fctx.HasReturnType {
		v, ok := idx.FindVariable(spec.Name, spec.Name)
		if !ok {
			acc.Error("internal error: missing implicit return variable for "+spec.Name, ast.Undefined())
			b.Ret(llvm.Value{})
			return
		}
		loaded := b.Load(v.IRPointer, opt.LoadPrefix+spec.Name+opt.LoadSuffix)
		b.Ret(loaded)
		return
	}
	b.Ret(llvm.Value{})
}
