package frontend

import (
	"fmt"

	"rela/rir"
)

// compiler holds the one piece of state compilation needs across an
// FESpec tree: a counter for Any's fresh "#k" symbol, mirroring
// RelaCompiler.hash_cnt.
type compiler struct {
	hashCnt int
}

// Compile lowers fe into the RIR Spec "preState ▶ pre = postState ▶ post",
// where pre/post are the Rel pair fe's modifiers denote. Grounded on
// RelaCompiler.compile.
func Compile(fe *FESpec) *rir.Spec {
	c := &compiler{}
	pre, post, _ := c.visit(fe)
	return rir.Equal(rir.Image(rir.PreState, pre), rir.Image(rir.PostState, post))
}

// visit returns (pre, post, domain) for fe, following compiler.py's
// visit_atomic_spec / visit_concat_spec / visit_else_spec exactly.
func (c *compiler) visit(fe *FESpec) (pre, post *rir.Rel, domain *rir.Prop) {
	switch fe.kind {
	case specAtomic:
		return c.visitAtomic(fe)
	case specConcat:
		pre1, post1, dom1 := c.visit(fe.s1)
		pre2, post2, dom2 := c.visit(fe.s2)
		return pre1.Concat(pre2), post1.Concat(post2), dom1.Concat(dom2)
	case specElse:
		pre1, post1, dom1 := c.visit(fe.s1)
		pre2, post2, dom2 := c.visit(fe.s2)
		negDom1 := rir.Complement(dom1)
		pre := pre1.Union(rir.Identity(negDom1).Compose(pre2))
		post := post1.Union(rir.Identity(negDom1).Compose(post2))
		return pre, post, dom1.Union(dom2)
	default:
		panic(fmt.Errorf("frontend: unhandled FESpec kind %v", fe.kind))
	}
}

// visitAtomic implements §6's compilation table, one modifier per row.
func (c *compiler) visitAtomic(fe *FESpec) (pre, post *rir.Rel, domain *rir.Prop) {
	d := fe.r
	switch fe.m.kind {
	case modPreserve:
		return rir.Identity(d), rir.Identity(d), d

	case modAdd:
		p := fe.m.p
		dUnionP := d.Union(p)
		return rir.Identity(dUnionP).Union(rir.Product(d, p)), rir.Identity(dUnionP), dUnionP

	case modRemove:
		p := fe.m.p
		return rir.Identity(rir.Intersect(d, rir.Complement(p))), rir.Identity(d), d

	case modReplace:
		p1, p2 := fe.m.p, fe.m.p2
		dUnionP2 := d.Union(p2)
		pre := rir.Identity(rir.Intersect(dUnionP2, rir.Complement(p1))).Union(rir.Product(rir.Intersect(d, p1), p2))
		return pre, rir.Identity(dUnionP2), dUnionP2

	case modDrop:
		drop := rir.Sym("drop")
		dUnionDrop := d.Union(drop)
		return rir.Product(dUnionDrop, drop), rir.Identity(dUnionDrop), dUnionDrop

	case modAny:
		p := fe.m.p
		c.hashCnt++
		sharp := rir.Sym(fmt.Sprintf("#%d", c.hashCnt))
		dUnionP := d.Union(p)
		pre := rir.Product(dUnionP, sharp)
		post := rir.Product(p, sharp).Union(rir.Identity(rir.Intersect(d, rir.Complement(p))))
		return pre, post, dUnionP

	default:
		panic(fmt.Errorf("frontend: unhandled Modifier kind %v", fe.m.kind))
	}
}
