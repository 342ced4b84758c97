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

// Generator ties the IR Builder Facade, Type System, Index and
// diagnostics together for one POU, mirroring the fields
// StatementCodeGenerator carries in rusty's statement_generator.rs.
type Generator struct {
	B        *irb.Builder
	Index    index.Index
	Acc      diagnostics.Acceptor
	Options  util.GeneratorOptions
	Ctx      FunctionContext
}

// NewGenerator constructs a Generator for one POU.
func NewGenerator(b *irb.Builder, idx index.Index, acc diagnostics.Acceptor, opt util.GeneratorOptions, fctx FunctionContext) *Generator {
	return &Generator{B: b, Index: idx, Acc: acc, Options: opt, Ctx: fctx}
}

// loadName builds the deterministic load-instruction name spec.md §4.3
// pins: "<load_prefix><var_name><load_suffix>". LLVM appends "_1", "_2",
// ... automatically when the same name is reused for a repeated load of
// the same variable within one function.
func (g *Generator) loadName(varName string) string {
	return g.Options.LoadPrefix + varName + g.Options.LoadSuffix
}

// defaultType resolves the generator's configured default integer/real
// type for an untyped literal.
func (g *Generator) defaultType(kind ast.LiteralKind) typesystem.TypeInfo {
	name := g.Options.DefaultInteger
	if kind == ast.LiteralReal {
		name = g.Options.DefaultReal
	}
	if t, ok := g.Index.FindType(name); ok {
		return t
	}
	if kind == ast.LiteralReal {
		return typesystem.REAL
	}
	return typesystem.DINT
}

// GenerateLValue resolves stmt (which must be a Reference) to the
// pointer it should be stored through, used by assignment and FOR/loop
// counters. It reports UnresolvedReference and returns ok=false if the
// name cannot be found.
func (g *Generator) GenerateLValue(stmt ast.Statement) (ptr llvm.Value, t typesystem.TypeInfo, ok bool) {
	ref, isRef := stmt.(ast.Reference)
	if !isRef {
		g.Acc.Error("assignment target must be a variable reference", stmt.Range())
		return llvm.Value{}, typesystem.TypeInfo{}, false
	}
	v, found := g.Index.FindVariable(g.Ctx.LinkingContext, ref.Name)
	if !found {
		g.Acc.UnresolvedReference(ref.Name, ref.Location)
		return llvm.Value{}, typesystem.TypeInfo{}, false
	}
	return v.IRPointer, v.Type, true
}

// GenerateExpression emits the rvalue IR for stmt and returns its value
// together with its TypeInfo. target, when non-nil, is the contextual
// type an untyped literal should adopt (spec.md §4.3); it is not used to
// insert an implicit cast here — callers (assignment, call-argument
// binding) call typesystem.EmitCast themselves once they know both sides.
func (g *Generator) GenerateExpression(stmt ast.Statement, target *typesystem.TypeInfo) (llvm.Value, typesystem.TypeInfo) {
	switch s := stmt.(type) {
	case ast.Literal:
		return g.generateLiteral(s, target)
	case ast.Reference:
		return g.generateReferenceLoad(s)
	case ast.BinaryExpression:
		return g.generateBinary(s)
	case ast.UnaryExpression:
		return g.generateUnary(s)
	case ast.Call:
		return g.generateCall(s)
	case ast.Empty:
		return llvm.Value{}, typesystem.VOID
	default:
		g.Acc.Error("unsupported expression construct", stmt.Range())
		return llvm.Value{}, typesystem.VOID
	}
}

func (g *Generator) generateLiteral(lit ast.Literal, target *typesystem.TypeInfo) (llvm.Value, typesystem.TypeInfo) {
	switch lit.Kind {
	case ast.LiteralInteger:
		v, err := ParseIntegerLiteral(lit.Value)
		if err != nil {
			g.Acc.Error(diagnostics.NewError(diagnostics.InvalidLiteral, lit.Location, "%s", err).Error(), lit.Location)
			return llvm.Value{}, g.defaultType(ast.LiteralInteger)
		}
		// A literal with no contextual target type takes the smallest
		// signed type its value fits into, floored to DINT (spec.md §4.3)
		// — never the configured default alone, since that would silently
		// truncate a literal like 5000000000 into a 32-bit constant.
		t, fitErr := integerLiteralType(v)
		if fitErr != nil {
			g.Acc.Error(diagnostics.NewError(diagnostics.InvalidLiteral, lit.Location, "%s", fitErr).Error(), lit.Location)
			t = g.defaultType(ast.LiteralInteger)
		}
		if target != nil && target.IsNumeric() {
			t = *target
		}
		return irb.ConstInt(typesystem.LLVMType(g.B.Ctx, t), v, t.IsSigned()), t
	case ast.LiteralReal:
		t := g.defaultType(ast.LiteralReal)
		if target != nil && target.Nature() == typesystem.NatureReal {
			t = *target
		}
		v, err := ParseRealLiteral(lit.Value)
		if err != nil {
			g.Acc.Error(diagnostics.NewError(diagnostics.InvalidLiteral, lit.Location, "%s", err).Error(), lit.Location)
			return llvm.Value{}, t
		}
		return irb.ConstFloat(typesystem.LLVMType(g.B.Ctx, t), v), t
	case ast.LiteralBool:
		v, err := ParseBoolLiteral(lit.Value)
		if err != nil {
			g.Acc.Error(diagnostics.NewError(diagnostics.InvalidLiteral, lit.Location, "%s", err).Error(), lit.Location)
			return llvm.Value{}, typesystem.BOOLT
		}
		iv := uint64(0)
		if v {
			iv = 1
		}
		return irb.ConstInt(g.B.Ctx.Int1Type(), iv, false), typesystem.BOOLT
	case ast.LiteralString:
		g.Acc.Error("string literals are not supported by this generator", lit.Location)
		return llvm.Value{}, typesystem.TypeInfo{Kind: typesystem.String}
	default:
		g.Acc.Error("unknown literal kind", lit.Location)
		return llvm.Value{}, typesystem.VOID
	}
}

func (g *Generator) generateReferenceLoad(ref ast.Reference) (llvm.Value, typesystem.TypeInfo) {
	v, ok := g.Index.FindVariable(g.Ctx.LinkingContext, ref.Name)
	if !ok {
		g.Acc.UnresolvedReference(ref.Name, ref.Location)
		return llvm.Value{}, typesystem.VOID
	}
	return g.B.Load(v.IRPointer, g.loadName(ref.Name)), v.Type
}

// binaryOpKind classifies an operator string for dispatch.
type binaryOpKind int

const (
	opArith binaryOpKind = iota
	opCompare
	opLogical
)

var comparisonOps = map[string]bool{
	"=": true, "<>": true, "<": true, "<=": true, ">": true, ">=": true,
}

var logicalOps = map[string]bool{
	"AND": true, "OR": true, "XOR": true,
}

func classify(op string) binaryOpKind {
	switch {
	case comparisonOps[op]:
		return opCompare
	case logicalOps[op]:
		return opLogical
	default:
		return opArith
	}
}

func (g *Generator) generateBinary(expr ast.BinaryExpression) (llvm.Value, typesystem.TypeInfo) {
	lhs, lt := g.GenerateExpression(expr.Left, nil)
	rhs, rt := g.GenerateExpression(expr.Right, nil)

	kind := classify(expr.Op)
	if kind == opLogical {
		return g.generateLogical(expr, lhs, rhs)
	}

	common, castL, castR := typesystem.PromoteForBinary(lt, rt)
	if castL {
		lhs = typesystem.EmitCast(g.B, lhs, lt, common, expr.Left.Range(), g.Acc)
	}
	if castR {
		rhs = typesystem.EmitCast(g.B, rhs, rt, common, expr.Right.Range(), g.Acc)
	}

	g.warnIfDivideByLiteralZero(expr)

	if kind == opCompare {
		return g.generateCompare(expr.Op, lhs, rhs, common), typesystem.BOOLT
	}
	return g.generateArith(expr.Op, lhs, rhs, common, expr.Location), common
}

func (g *Generator) generateLogical(expr ast.BinaryExpression, lhs, rhs llvm.Value) (llvm.Value, typesystem.TypeInfo) {
	switch expr.Op {
	case "AND":
		return g.B.And(lhs, rhs, "tmpVar"), typesystem.BOOLT
	case "OR":
		return g.B.Or(lhs, rhs, "tmpVar"), typesystem.BOOLT
	case "XOR":
		return g.B.Xor(lhs, rhs, "tmpVar"), typesystem.BOOLT
	default:
		g.Acc.Error("unsupported logical operator "+expr.Op, expr.Location)
		return lhs, typesystem.BOOLT
	}
}

func (g *Generator) generateArith(op string, lhs, rhs llvm.Value, t typesystem.TypeInfo, loc ast.SourceRange) llvm.Value {
	isFloat := t.Nature() == typesystem.NatureReal
	switch op {
	case "+":
		if isFloat {
			return g.B.FAdd(lhs, rhs, "tmpVar")
		}
		return g.B.AddInt(lhs, rhs, "tmpVar")
	case "-":
		if isFloat {
			return g.B.FSub(lhs, rhs, "tmpVar")
		}
		return g.B.SubInt(lhs, rhs, "tmpVar")
	case "*":
		if isFloat {
			return g.B.FMul(lhs, rhs, "tmpVar")
		}
		return g.B.MulInt(lhs, rhs, "tmpVar")
	case "/":
		if isFloat {
			return g.B.FDiv(lhs, rhs, "tmpVar")
		}
		if t.IsSigned() {
			return g.B.SDiv(lhs, rhs, "tmpVar")
		}
		return g.B.UDiv(lhs, rhs, "tmpVar")
	case "MOD":
		if isFloat {
			return g.B.FRem(lhs, rhs, "tmpVar")
		}
		if t.IsSigned() {
			return g.B.SRem(lhs, rhs, "tmpVar")
		}
		return g.B.URem(lhs, rhs, "tmpVar")
	default:
		g.Acc.Error("unsupported binary operator "+op, loc)
		return lhs
	}
}

func (g *Generator) generateCompare(op string, lhs, rhs llvm.Value, operandType typesystem.TypeInfo) llvm.Value {
	if operandType.Nature() == typesystem.NatureReal {
		pred, ok := floatPredicates[op]
		if !ok {
			pred = llvm.FloatOEQ
		}
		return g.B.FCmp(pred, lhs, rhs, "tmpVar")
	}
	table := signedIntPredicates
	if !operandType.IsSigned() {
		table = unsignedIntPredicates
	}
	pred, ok := table[op]
	if !ok {
		pred = llvm.IntEQ
	}
	return g.B.ICmp(pred, lhs, rhs, "tmpVar")
}

var floatPredicates = map[string]llvm.FloatPredicate{
	"=": llvm.FloatOEQ, "<>": llvm.FloatONE,
	"<": llvm.FloatOLT, "<=": llvm.FloatOLE,
	">": llvm.FloatOGT, ">=": llvm.FloatOGE,
}

var signedIntPredicates = map[string]llvm.IntPredicate{
	"=": llvm.IntEQ, "<>": llvm.IntNE,
	"<": llvm.IntSLT, "<=": llvm.IntSLE,
	">": llvm.IntSGT, ">=": llvm.IntSGE,
}

var unsignedIntPredicates = map[string]llvm.IntPredicate{
	"=": llvm.IntEQ, "<>": llvm.IntNE,
	"<": llvm.IntULT, "<=": llvm.IntULE,
	">": llvm.IntUGT, ">=": llvm.IntUGE,
}

func (g *Generator) generateUnary(expr ast.UnaryExpression) (llvm.Value, typesystem.TypeInfo) {
	val, t := g.GenerateExpression(expr.Operand, nil)
	switch expr.Op {
	case "-":
		if t.Nature() == typesystem.NatureReal {
			zero := irb.ConstFloat(typesystem.LLVMType(g.B.Ctx, t), 0)
			return g.B.FSub(zero, val, "tmpVar"), t
		}
		zero := irb.ConstInt(typesystem.LLVMType(g.B.Ctx, t), 0, t.IsSigned())
		return g.B.SubInt(zero, val, "tmpVar"), t
	case "NOT":
		allOnes := irb.ConstInt(typesystem.LLVMType(g.B.Ctx, t), ^uint64(0), false)
		return g.B.Xor(val, allOnes, "tmpVar"), t
	default:
		g.Acc.Error("unsupported unary operator "+expr.Op, expr.Location)
		return val, t
	}
}

func (g *Generator) generateCall(call ast.Call) (llvm.Value, typesystem.TypeInfo) {
	ref, ok := call.Operator.(ast.Reference)
	if !ok {
		g.Acc.Error("call target must be a POU reference", call.Range())
		return llvm.Value{}, typesystem.VOID
	}
	pou, found := g.Index.FindPou(ref.Name)
	if !found {
		g.Acc.UnresolvedReference(ref.Name, ref.Location)
		return llvm.Value{}, typesystem.VOID
	}

	var items []ast.Statement
	if call.Parameters != nil {
		if list, ok := call.Parameters.(ast.ExpressionList); ok {
			items = list.Items
		} else {
			items = []ast.Statement{call.Parameters}
		}
	}

	var args []llvm.Value
	for i, item := range items {
		var target *typesystem.TypeInfo
		if i < len(pou.ParamOrder) {
			if pt, ok := pou.ParamTypes[pou.ParamOrder[i]]; ok {
				target = &pt
			}
		}
		v, vt := g.GenerateExpression(item, target)
		if target != nil && !vt.Equal(*target) {
			v = typesystem.EmitCast(g.B, v, vt, *target, item.Range(), g.Acc)
		}
		args = append(args, v)
	}

	name := ""
	if pou.HasReturnType {
		name = "tmpVar"
	}
	result := g.B.Call(pou.Function, args, name)
	if pou.HasReturnType {
		return result, pou.ReturnType
	}
	return result, typesystem.VOID
}

// warnIfDivideByLiteralZero reports a warning (never an error — spec.md
// §9 leaves the runtime trap/UB decision to the backend) when the
// right-hand side of a division is the constant literal zero.
func (g *Generator) warnIfDivideByLiteralZero(expr ast.BinaryExpression) {
	if expr.Op != "/" && expr.Op != "MOD" {
		return
	}
	lit, ok := expr.Right.(ast.Literal)
	if !ok {
		return
	}
	isZero := false
	switch lit.Kind {
	case ast.LiteralInteger:
		if v, err := ParseIntegerLiteral(lit.Value); err == nil && v == 0 {
			isZero = true
		}
	case ast.LiteralReal:
		if v, err := ParseRealLiteral(lit.Value); err == nil && v == 0 {
			isZero = true
		}
	}
	if isZero {
		g.Acc.Warning("division by literal zero", expr.Location)
	}
}
