package book

type color uint8

const (
	red   color = 0
	black color = 1
)

type node struct {
	key    int64
	level  *priceLevel
	color  color
	left   *node
	right  *node
	parent *node
}

// rbTree maps price -> priceLevel with ordered traversal. Standard
// red-black tree with a shared black sentinel.
type rbTree struct {
	root *node
	nil  *node
	size int
}

func newRBTree() *rbTree {
	sentinel := &node{color: black}
	return &rbTree{root: sentinel, nil: sentinel}
}

func (t *rbTree) Size() int { return t.size }

func (t *rbTree) Find(price int64) *priceLevel {
	n := t.search(price)
	if n == t.nil {
		return nil
	}
	return n.level
}

// Upsert returns the level at price, creating it if absent.
func (t *rbTree) Upsert(price int64) *priceLevel {
	y := t.nil
	x := t.root
	for x != t.nil {
		y = x
		switch {
		case price < x.key:
			x = x.left
		case price > x.key:
			x = x.right
		default:
			return x.level
		}
	}

	lvl := &priceLevel{price: price}
	z := &node{key: price, level: lvl, color: red, left: t.nil, right: t.nil, parent: y}
	if y == t.nil {
		t.root = z
	} else if price < y.key {
		y.left = z
	} else {
		y.right = z
	}
	t.insertFixup(z)
	t.size++
	return lvl
}

func (t *rbTree) Delete(price int64) bool {
	z := t.search(price)
	if z == t.nil {
		return false
	}
	t.deleteNode(z)
	t.size--
	return true
}

func (t *rbTree) Min() *priceLevel {
	n := t.minNode(t.root)
	if n == t.nil {
		return nil
	}
	return n.level
}

func (t *rbTree) Max() *priceLevel {
	n := t.maxNode(t.root)
	if n == t.nil {
		return nil
	}
	return n.level
}

func (t *rbTree) Ascend(fn func(*priceLevel) bool) {
	for n := t.minNode(t.root); n != t.nil; n = t.next(n) {
		if !fn(n.level) {
			return
		}
	}
}

func (t *rbTree) Descend(fn func(*priceLevel) bool) {
	for n := t.maxNode(t.root); n != t.nil; n = t.prev(n) {
		if !fn(n.level) {
			return
		}
	}
}

func (t *rbTree) search(price int64) *node {
	n := t.root
	for n != t.nil {
		switch {
		case price < n.key:
			n = n.left
		case price > n.key:
			n = n.right
		default:
			return n
		}
	}
	return t.nil
}

func (t *rbTree) minNode(n *node) *node {
	if n == t.nil {
		return t.nil
	}
	for n.left != t.nil {
		n = n.left
	}
	return n
}

func (t *rbTree) maxNode(n *node) *node {
	if n == t.nil {
		return t.nil
	}
	for n.right != t.nil {
		n = n.right
	}
	return n
}

func (t *rbTree) next(n *node) *node {
	if n.right != t.nil {
		return t.minNode(n.right)
	}
	p := n.parent
	for p != t.nil && n == p.right {
		n = p
		p = p.parent
	}
	return p
}

func (t *rbTree) prev(n *node) *node {
	if n.left != t.nil {
		return t.maxNode(n.left)
	}
	p := n.parent
	for p != t.nil && n == p.left {
		n = p
		p = p.parent
	}
	return p
}

func (t *rbTree) rotateLeft(x *node) {
	y := x.right
	x.right = y.left
	if y.left != t.nil {
		y.left.parent = x
	}
	y.parent = x.parent
	if x.parent == t.nil {
		t.root = y
	} else if x == x.parent.left {
		x.parent.left = y
	} else {
		x.parent.right = y
	}
	y.left = x
	x.parent = y
}

func (t *rbTree) rotateRight(y *node) {
	x := y.left
	y.left = x.right
	if x.right != t.nil {
		x.right.parent = y
	}
	x.parent = y.parent
	if y.parent == t.nil {
		t.root = x
	} else if y == y.parent.right {
		y.parent.right = x
	} else {
		y.parent.left = x
	}
	x.right = y
	y.parent = x
}

func (t *rbTree) insertFixup(z *node) {
	for z.parent.color == red {
		if z.parent == z.parent.parent.left {
			u := z.parent.parent.right
			if u.color == red {
				z.parent.color = black
				u.color = black
				z.parent.parent.color = red
				z = z.parent.parent
			} else {
				if z == z.parent.right {
					z = z.parent
					t.rotateLeft(z)
				}
				z.parent.color = black
				z.parent.parent.color = red
				t.rotateRight(z.parent.parent)
			}
		} else {
			u := z.parent.parent.left
			if u.color == red {
				z.parent.color = black
				u.color = black
				z.parent.parent.color = red
				z = z.parent.parent
			} else {
				if z == z.parent.left {
					z = z.parent
					t.rotateRight(z)
				}
				z.parent.color = black
				z.parent.parent.color = red
				t.rotateLeft(z.parent.parent)
			}
		}
	}
	t.root.color = black
}

func (t *rbTree) transplant(u, v *node) {
	if u.parent == t.nil {
		t.root = v
	} else if u == u.parent.left {
		u.parent.left = v
	} else {
		u.parent.right = v
	}
	v.parent = u.parent
}

func (t *rbTree) deleteNode(z *node) {
	y := z
	yColor := y.color
	var x *node

	switch {
	case z.left == t.nil:
		x = z.right
		t.transplant(z, z.right)
	case z.right == t.nil:
		x = z.left
		t.transplant(z, z.left)
	default:
		y = t.minNode(z.right)
		yColor = y.color
		x = y.right
		if y.parent == z {
			x.parent = y
		} else {
			t.transplant(y, y.right)
			y.right = z.right
			y.right.parent = y
		}
		t.transplant(z, y)
		y.left = z.left
		y.left.parent = y
		y.color = z.color
	}

	if yColor == black {
		t.deleteFixup(x)
	}
}

func (t *rbTree) deleteFixup(x *node) {
	for x != t.root && x.color == black {
		if x == x.parent.left {
			w := x.parent.right
			if w.color == red {
				w.color = black
				x.parent.color = red
				t.rotateLeft(x.parent)
				w = x.parent.right
			}
			if w.left.color == black && w.right.color == black {
				w.color = red
				x = x.parent
			} else {
				if w.right.color == black {
					w.left.color = black
					w.color = red
					t.rotateRight(w)
					w = x.parent.right
				}
				w.color = x.parent.color
				x.parent.color = black
				w.right.color = black
				t.rotateLeft(x.parent)
				x = t.root
			}
		} else {
			w := x.parent.left
			if w.color == red {
				w.color = black
				x.parent.color = red
				t.rotateRight(x.parent)
				w = x.parent.left
			}
			if w.right.color == black && w.left.color == black {
				w.color = red
				x = x.parent
			} else {
				if w.left.color == black {
					w.right.color = black
					w.color = red
					t.rotateLeft(x.parent)
					w = x.parent.left
				}
				w.color = x.parent.color
				x.parent.color = black
				w.left.color = black
				t.rotateRight(x.parent)
				x = t.root
			}
		}
	}
	x.color = black
}
