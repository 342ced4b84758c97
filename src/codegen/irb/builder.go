// Package irb is the IR Builder Facade (spec.md §4.1): the minimum surface
// the Statement & Expression generators need over an LLVM module, wrapping
// tinygo.org/x/go-llvm the same way vslc/src/ir/llvm/transform.go wraps it
// for the VSL compiler. Keeping this as a thin, separate package means the
// Type System and the generators never touch go-llvm directly; they only
// ever go through Builder.
package irb

import (
	"tinygo.org/x/go-llvm"
)

// Builder owns one LLVM context/module/builder triple. One Builder backs
// exactly one compilation unit; per spec.md §5 each POU worker must own its
// own Builder because the "current insertion block" cursor is not
// thread-safe.
type Builder struct {
	Ctx     llvm.Context
	Module  llvm.Module
	Builder llvm.Builder
}

// New creates a fresh Builder with a new LLVM context and an empty module
// named moduleName.
func New(moduleName string) *Builder {
	ctx := llvm.NewContext()
	return &Builder{
		Ctx:     ctx,
		Module:  ctx.NewModule(moduleName),
		Builder: ctx.NewBuilder(),
	}
}

// Dispose releases the context, module and builder, mirroring the
// defer ctx.Dispose() / defer m.Dispose() / defer b.Dispose() pattern in
// vslc/src/ir/llvm/transform.go's GenLLVM.
func (b *Builder) Dispose() {
	b.Builder.Dispose()
	b.Module.Dispose()
	b.Ctx.Dispose()
}

// String renders the whole module as LLVM IR text, used by tests that
// compare generated IR against literal fragments (spec.md §8) and by
// cmd/stlcg's verbose output.
func (b *Builder) String() string {
	return b.Module.String()
}

// DeclareFunction adds a function declaration to the module and returns its
// handle, grounded on genFuncHeader in vslc/src/ir/llvm/transform.go.
func (b *Builder) DeclareFunction(name string, ret llvm.Type, params []llvm.Type, variadic bool) llvm.Value {
	ftyp := llvm.FunctionType(ret, params, variadic)
	return llvm.AddFunction(b.Module, name, ftyp)
}

// NamedFunction looks up a previously declared/defined function by name.
func (b *Builder) NamedFunction(name string) (llvm.Value, bool) {
	fn := b.Module.NamedFunction(name)
	if fn.IsNil() {
		return fn, false
	}
	return fn, true
}

// ----------------------------------------------------------------
// ----- Block creation, positioning and navigation (spec.md §4.1) -----
// ----------------------------------------------------------------

// AppendBlock creates a new basic block at the end of function and returns
// it. nameHint becomes the block's textual label (e.g. "condition_check",
// "for_body", "continue").
func (b *Builder) AppendBlock(function llvm.Value, nameHint string) llvm.BasicBlock {
	return b.Ctx.AddBasicBlock(function, nameHint)
}

// PrependBlock inserts a new basic block immediately before pos, used by
// the IF/ELSIF generator to create each "condition_body" block right in
// front of the next branch block (spec.md §4.4).
func (b *Builder) PrependBlock(pos llvm.BasicBlock, nameHint string) llvm.BasicBlock {
	return b.Ctx.InsertBasicBlock(pos, nameHint)
}

// PositionAt moves the insertion cursor to the end of block.
func (b *Builder) PositionAt(block llvm.BasicBlock) {
	b.Builder.SetInsertPointAtEnd(block)
}

// CurrentBlock returns the block the cursor currently points at.
func (b *Builder) CurrentBlock() llvm.BasicBlock {
	return b.Builder.GetInsertBlock()
}

// MoveAfter relocates basic block a to be textually positioned right after
// basic block other, used by the CASE generator to keep "continue" after
// "else" regardless of creation order (spec.md §4.4).
func (b *Builder) MoveAfter(a, other llvm.BasicBlock) {
	a.MoveAfter(other)
}

// NextBlock returns the basic block that follows blk in the function, and
// false if blk is the last block.
func (b *Builder) NextBlock(blk llvm.BasicBlock) (llvm.BasicBlock, bool) {
	next := blk.NextBasicBlock()
	return next, !next.IsNil()
}

// PrevBlock returns the basic block that precedes blk in the function, and
// false if blk is the first block.
func (b *Builder) PrevBlock(blk llvm.BasicBlock) (llvm.BasicBlock, bool) {
	prev := blk.PreviousBasicBlock()
	return prev, !prev.IsNil()
}

// ------------------------------------------
// ----- Arithmetic (integer and float) -----
// ------------------------------------------

func (b *Builder) AddInt(lhs, rhs llvm.Value, name string) llvm.Value { return b.Builder.CreateAdd(lhs, rhs, name) }
func (b *Builder) SubInt(lhs, rhs llvm.Value, name string) llvm.Value { return b.Builder.CreateSub(lhs, rhs, name) }
func (b *Builder) MulInt(lhs, rhs llvm.Value, name string) llvm.Value { return b.Builder.CreateMul(lhs, rhs, name) }
func (b *Builder) SDiv(lhs, rhs llvm.Value, name string) llvm.Value   { return b.Builder.CreateSDiv(lhs, rhs, name) }
func (b *Builder) UDiv(lhs, rhs llvm.Value, name string) llvm.Value   { return b.Builder.CreateUDiv(lhs, rhs, name) }
func (b *Builder) SRem(lhs, rhs llvm.Value, name string) llvm.Value   { return b.Builder.CreateSRem(lhs, rhs, name) }
func (b *Builder) URem(lhs, rhs llvm.Value, name string) llvm.Value   { return b.Builder.CreateURem(lhs, rhs, name) }

func (b *Builder) FAdd(lhs, rhs llvm.Value, name string) llvm.Value { return b.Builder.CreateFAdd(lhs, rhs, name) }
func (b *Builder) FSub(lhs, rhs llvm.Value, name string) llvm.Value { return b.Builder.CreateFSub(lhs, rhs, name) }
func (b *Builder) FMul(lhs, rhs llvm.Value, name string) llvm.Value { return b.Builder.CreateFMul(lhs, rhs, name) }
func (b *Builder) FDiv(lhs, rhs llvm.Value, name string) llvm.Value { return b.Builder.CreateFDiv(lhs, rhs, name) }
func (b *Builder) FRem(lhs, rhs llvm.Value, name string) llvm.Value { return b.Builder.CreateFRem(lhs, rhs, name) }

func (b *Builder) And(lhs, rhs llvm.Value, name string) llvm.Value { return b.Builder.CreateAnd(lhs, rhs, name) }
func (b *Builder) Or(lhs, rhs llvm.Value, name string) llvm.Value  { return b.Builder.CreateOr(lhs, rhs, name) }
func (b *Builder) Xor(lhs, rhs llvm.Value, name string) llvm.Value { return b.Builder.CreateXor(lhs, rhs, name) }
func (b *Builder) Shl(lhs, rhs llvm.Value, name string) llvm.Value { return b.Builder.CreateShl(lhs, rhs, name) }
func (b *Builder) LShr(lhs, rhs llvm.Value, name string) llvm.Value { return b.Builder.CreateLShr(lhs, rhs, name) }

// --------------------------
// ----- Memory ops --------
// --------------------------

// Load emits a load instruction from ptr, naming the resulting SSA value
// name. Callers are expected to have already built name as
// "<load_prefix><var_name><load_suffix>" (spec.md §4.3); repeated loads of
// the same variable get LLVM's automatic "_1", "_2", ... disambiguation.
func (b *Builder) Load(ptr llvm.Value, name string) llvm.Value {
	return b.Builder.CreateLoad(ptr, name)
}

// Store emits a store of val into ptr. The caller must have already
// inserted any cast needed so the IR types match (invariant 2, spec.md §3).
func (b *Builder) Store(ptr, val llvm.Value) llvm.Value {
	return b.Builder.CreateStore(val, ptr)
}

// Call emits a call to fn with args, grounded on the call-site handling
// in vslc/src/ir/llvm/transform.go's genExpression.
func (b *Builder) Call(fn llvm.Value, args []llvm.Value, name string) llvm.Value {
	return b.Builder.CreateCall(fn, args, name)
}

// Alloca reserves stack storage for a value of type t, used for parameter,
// local variable and return-value storage; FOR loop counters use the
// storage the Index resolves for them.
func (b *Builder) Alloca(t llvm.Type, name string) llvm.Value {
	return b.Builder.CreateAlloca(t, name)
}

// -----------------------
// ----- Terminators -----
// -----------------------

func (b *Builder) Br(target llvm.BasicBlock) llvm.Value {
	return b.Builder.CreateBr(target)
}

func (b *Builder) CondBr(cond llvm.Value, then, els llvm.BasicBlock) llvm.Value {
	return b.Builder.CreateCondBr(cond, then, els)
}

// Switch emits a switch instruction on value with defaultBlock as the
// default arm and cases as the ordered (constant, target) arm list, in
// source order (spec.md §4.4 CASE).
func (b *Builder) Switch(value llvm.Value, defaultBlock llvm.BasicBlock, cases []CaseArm) llvm.Value {
	sw := b.Builder.CreateSwitch(value, defaultBlock, len(cases))
	for _, c := range cases {
		sw.AddCase(c.Const, c.Target)
	}
	return sw
}

// CaseArm is one (constant, target-block) pair of a Switch.
type CaseArm struct {
	Const  llvm.Value
	Target llvm.BasicBlock
}

// Ret emits a return of value. Pass a zero llvm.Value{} (IsNil() true) for
// a void return.
func (b *Builder) Ret(value llvm.Value) llvm.Value {
	if value.IsNil() {
		return b.Builder.CreateRetVoid()
	}
	return b.Builder.CreateRet(value)
}

// -------------------
// ----- Compares -----
// -------------------

func (b *Builder) ICmp(pred llvm.IntPredicate, lhs, rhs llvm.Value, name string) llvm.Value {
	return b.Builder.CreateICmp(pred, lhs, rhs, name)
}

func (b *Builder) FCmp(pred llvm.FloatPredicate, lhs, rhs llvm.Value, name string) llvm.Value {
	return b.Builder.CreateFCmp(pred, lhs, rhs, name)
}

// ----------------
// ----- Casts -----
// ----------------

func (b *Builder) SExt(v llvm.Value, to llvm.Type, name string) llvm.Value {
	return b.Builder.CreateSExt(v, to, name)
}

func (b *Builder) ZExt(v llvm.Value, to llvm.Type, name string) llvm.Value {
	return b.Builder.CreateZExt(v, to, name)
}

func (b *Builder) Trunc(v llvm.Value, to llvm.Type, name string) llvm.Value {
	return b.Builder.CreateTrunc(v, to, name)
}

func (b *Builder) SIToFP(v llvm.Value, to llvm.Type, name string) llvm.Value {
	return b.Builder.CreateSIToFP(v, to, name)
}

func (b *Builder) UIToFP(v llvm.Value, to llvm.Type, name string) llvm.Value {
	return b.Builder.CreateUIToFP(v, to, name)
}

func (b *Builder) FPToSI(v llvm.Value, to llvm.Type, name string) llvm.Value {
	return b.Builder.CreateFPToSI(v, to, name)
}

func (b *Builder) FPToUI(v llvm.Value, to llvm.Type, name string) llvm.Value {
	return b.Builder.CreateFPToUI(v, to, name)
}

func (b *Builder) FPExt(v llvm.Value, to llvm.Type, name string) llvm.Value {
	return b.Builder.CreateFPExt(v, to, name)
}

func (b *Builder) FPTrunc(v llvm.Value, to llvm.Type, name string) llvm.Value {
	return b.Builder.CreateFPTrunc(v, to, name)
}

func (b *Builder) BitCast(v llvm.Value, to llvm.Type, name string) llvm.Value {
	return b.Builder.CreateBitCast(v, to, name)
}

func (b *Builder) PtrCast(v llvm.Value, to llvm.Type, name string) llvm.Value {
	return b.Builder.CreatePointerCast(v, to, name)
}

// ConstInt builds an integer constant of LLVM type t.
func ConstInt(t llvm.Type, v uint64, signExtend bool) llvm.Value {
	return llvm.ConstInt(t, v, signExtend)
}

// ConstFloat builds a floating point constant of LLVM type t.
func ConstFloat(t llvm.Type, v float64) llvm.Value {
	return llvm.ConstFloat(t, v)
}

// Params returns a function's formal parameter values, used when wiring
// call-argument casts and allocating stack storage for parameters.
func Params(fn llvm.Value) []llvm.Value {
	return fn.Params()
}
