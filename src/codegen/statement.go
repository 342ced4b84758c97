package codegen

import (
	"tinygo.org/x/go-llvm"

	"stlcg/src/ast"
	"stlcg/src/codegen/irb"
	"stlcg/src/typesystem"
)

// GenerateBody emits IR for a sequence of statements in order, the
// counterpart of generate_body in rusty's statement_generator.rs.
func (g *Generator) GenerateBody(stmts []ast.Statement) {
	for _, s := range stmts {
		g.GenerateStatement(s)
	}
}

// GenerateStatement dispatches on stmt's concrete type, mirroring the
// match in generate_statement (statement_generator.rs).
func (g *Generator) GenerateStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case ast.Assignment:
		g.generateAssignment(s)
	case ast.ForLoop:
		g.generateFor(s)
	case ast.WhileLoop:
		g.generateLoop(s.Condition, s.Body, "while_body", false, true)
	case ast.RepeatLoop:
		g.generateLoop(s.Condition, s.Body, "body", true, false)
	case ast.If:
		g.generateIf(s)
	case ast.Case:
		g.generateCase(s)
	case ast.Empty:
		// generates nothing
	case ast.ExpressionList:
		for _, item := range s.Items {
			g.GenerateStatement(item)
		}
	default:
		// A bare expression statement (e.g. a call used for its side
		// effect) is legal; evaluate it and discard the result.
		if _, isExprStmt := stmt.(ast.Call); isExprStmt {
			g.GenerateExpression(stmt, nil)
			return
		}
		g.Acc.Error("unsupported statement construct", stmt.Range())
	}
}

// generateAssignment implements the Assignment cast+store pattern
// spec.md §4.4 describes: resolve the lvalue, generate the rvalue typed
// towards the lvalue's type, cast if needed, then store.
func (g *Generator) generateAssignment(a ast.Assignment) {
	ptr, lt, ok := g.GenerateLValue(a.Left)
	if !ok {
		return
	}
	val, rt := g.GenerateExpression(a.Right, &lt)
	if !rt.Equal(lt) {
		val = typesystem.EmitCast(g.B, val, rt, lt, a.Location, g.Acc)
	}
	g.B.Store(ptr, val)
}

// generateFor implements the FOR loop CFG pattern spec.md §4.4 pins:
// blocks "condition_check", "for_body", "continue", with an SLE/ULE
// compare between the counter and the end value and a step-or-implicit-1
// increment, grounded on generate_for_statement in statement_generator.rs.
func (g *Generator) generateFor(f ast.ForLoop) {
	fn := g.Ctx.Function

	counterPtr, counterType, ok := g.GenerateLValue(f.Counter)
	if !ok {
		return
	}

	startVal, startType := g.GenerateExpression(f.Start, &counterType)
	if !startType.Equal(counterType) {
		startVal = typesystem.EmitCast(g.B, startVal, startType, counterType, f.Start.Range(), g.Acc)
	}
	g.B.Store(counterPtr, startVal)

	condBlock := g.B.AppendBlock(fn, "condition_check")
	bodyBlock := g.B.AppendBlock(fn, "for_body")
	continueBlock := g.B.AppendBlock(fn, "continue")

	g.B.Br(condBlock)

	g.B.PositionAt(condBlock)
	counterLoad := g.B.Load(counterPtr, g.loadNameFor(f.Counter))
	endVal, endType := g.GenerateExpression(f.End, &counterType)
	if !endType.Equal(counterType) {
		endVal = typesystem.EmitCast(g.B, endVal, endType, counterType, f.End.Range(), g.Acc)
	}
	pred := llvm.IntSLE
	if !counterType.IsSigned() {
		pred = llvm.IntULE
	}
	cmp := g.B.ICmp(pred, counterLoad, endVal, "tmpVar")
	g.B.CondBr(cmp, bodyBlock, continueBlock)

	g.B.PositionAt(bodyBlock)
	g.GenerateBody(f.Body)

	stepVal := g.forStep(f, counterType)
	updated := g.B.Load(counterPtr, g.loadNameFor(f.Counter))
	sum := g.B.AddInt(updated, stepVal, "tmpVar")
	g.B.Store(counterPtr, sum)
	g.B.Br(condBlock)

	g.B.PositionAt(continueBlock)
}

func (g *Generator) forStep(f ast.ForLoop, counterType typesystem.TypeInfo) llvm.Value {
	if f.ByStep == nil {
		return irbConstIntOne(g, counterType)
	}
	v, t := g.GenerateExpression(f.ByStep, &counterType)
	if !t.Equal(counterType) {
		v = typesystem.EmitCast(g.B, v, t, counterType, f.ByStep.Range(), g.Acc)
	}
	return v
}

func irbConstIntOne(g *Generator, t typesystem.TypeInfo) llvm.Value {
	return irb.ConstInt(typesystem.LLVMType(g.B.Ctx, t), 1, t.IsSigned())
}

// loadNameFor builds the deterministic load name for a counter reference;
// the counter is always an ast.Reference since GenerateLValue only
// accepts references.
func (g *Generator) loadNameFor(stmt ast.Statement) string {
	if ref, ok := stmt.(ast.Reference); ok {
		return g.loadName(ref.Name)
	}
	return g.loadName("tmp")
}

// generateLoop is the shared WHILE/REPEAT base helper
// (generate_base_while_statement in statement_generator.rs). WHILE
// branches unconditionally into condition_check before ever running the
// body (branchIntoBodyFirst=false), evaluating the condition true-means-
// run-body (trueMeansBody=true). REPEAT branches straight into the body
// first (branchIntoBodyFirst=true) and evaluates its UNTIL condition with
// the polarity spec.md §9 pins: the loop iterates while the condition is
// false, so trueMeansBody=false (true exits to continue).
func (g *Generator) generateLoop(cond ast.Statement, body []ast.Statement, bodyLabel string, branchIntoBodyFirst, trueMeansBody bool) {
	fn := g.Ctx.Function

	condBlock := g.B.AppendBlock(fn, "condition_check")
	bodyBlock := g.B.AppendBlock(fn, bodyLabel)
	continueBlock := g.B.AppendBlock(fn, "continue")

	if branchIntoBodyFirst {
		g.B.Br(bodyBlock)
	} else {
		g.B.Br(condBlock)
	}

	g.B.PositionAt(condBlock)
	boolType := typesystem.BOOLT
	condVal, _ := g.GenerateExpression(cond, &boolType)
	if trueMeansBody {
		g.B.CondBr(condVal, bodyBlock, continueBlock)
	} else {
		g.B.CondBr(condVal, continueBlock, bodyBlock)
	}

	g.B.PositionAt(bodyBlock)
	g.GenerateBody(body)
	g.B.Br(condBlock)

	g.B.PositionAt(continueBlock)
}

// generateIf implements the IF/ELSIF/ELSE CFG pattern spec.md §4.4
// describes, grounded line-for-line on generate_if_statement in
// statement_generator.rs: B0 is the block already active when
// generateIf is entered (no fresh block is allocated for it), followed
// by N-1 "branch" blocks for the remaining N-1 conditions, an optional
// "else" block, and a trailing "continue" block. Each B_i evaluates its
// condition and branches to a prepended "condition_body" block (which
// lowers that arm's statement body) or falls through to B_{i+1}.
func (g *Generator) generateIf(ifStmt ast.If) {
	fn := g.Ctx.Function
	n := len(ifStmt.Blocks)

	blocks := make([]llvm.BasicBlock, 0, n+2)
	blocks = append(blocks, g.B.CurrentBlock())
	for i := 1; i < n; i++ {
		blocks = append(blocks, g.B.AppendBlock(fn, "branch"))
	}

	hasElse := len(ifStmt.ElseBody) > 0
	var elseBlock llvm.BasicBlock
	if hasElse {
		elseBlock = g.B.AppendBlock(fn, "else")
		blocks = append(blocks, elseBlock)
	}

	continueBlock := g.B.AppendBlock(fn, "continue")
	blocks = append(blocks, continueBlock)

	for i, block := range ifStmt.Blocks {
		thenBlock := blocks[i]
		falseTarget := blocks[i+1]

		g.B.PositionAt(thenBlock)
		boolType := typesystem.BOOLT
		condVal, _ := g.GenerateExpression(block.Condition, &boolType)

		condBody := g.B.PrependBlock(falseTarget, "condition_body")
		g.B.CondBr(condVal, condBody, falseTarget)

		g.B.PositionAt(condBody)
		g.GenerateBody(block.Body)
		g.B.Br(continueBlock)
	}

	if hasElse {
		g.B.PositionAt(elseBlock)
		g.GenerateBody(ifStmt.ElseBody)
		g.B.Br(continueBlock)
	}

	g.B.PositionAt(continueBlock)
}

// generateCase implements the CASE CFG pattern spec.md §4.4 describes:
// the "continue" block is created first, then one "case" block per arm,
// then the "else" block, with "continue" finally moved to sit textually
// after "else" regardless of creation order, grounded on
// generate_case_statement in statement_generator.rs. The switch
// instruction itself is built last, back in the block active when
// generateCase was entered, once every arm's constant and target block
// exist; the cursor then moves to "continue".
func (g *Generator) generateCase(c ast.Case) {
	fn := g.Ctx.Function
	entryBlock := g.B.CurrentBlock()

	continueBlock := g.B.AppendBlock(fn, "continue")

	selVal, selType := g.GenerateExpression(c.Selector, nil)

	caseArms := make([]irb.CaseArm, 0, len(c.Blocks))
	for _, block := range c.Blocks {
		caseBlock := g.B.AppendBlock(fn, "case")
		constVal, constType := g.GenerateExpression(block.Condition, &selType)
		if !constType.Equal(selType) {
			constVal = typesystem.EmitCast(g.B, constVal, constType, selType, block.Condition.Range(), g.Acc)
		}
		caseArms = append(caseArms, irb.CaseArm{Const: constVal, Target: caseBlock})

		g.B.PositionAt(caseBlock)
		g.GenerateBody(block.Body)
		g.B.Br(continueBlock)
	}

	elseBlock := g.B.AppendBlock(fn, "else")
	g.B.PositionAt(elseBlock)
	g.GenerateBody(c.ElseBody)
	g.B.Br(continueBlock)

	g.B.MoveAfter(continueBlock, elseBlock)

	g.B.PositionAt(entryBlock)
	g.B.Switch(selVal, elseBlock, caseArms)

	g.B.PositionAt(continueBlock)
}
