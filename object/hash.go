package object

import (
	"bytes"
	"strings"
)

// HashKey はハッシュのキーとして使える値を (種類, 中身) の組で表す。
// 比較可能な構造体なので Go の map のキーにそのまま使え、
// 等価性は種類と中身の完全一致で決まる（ハッシュ値の衝突は起きない）。
type HashKey struct {
	Type ObjectType
	Int  int64  // INTEGER の値、BOOLEAN は 0/1
	Str  string // STRING の値
}

// Hashable はハッシュのキーになれるオブジェクト。
// Integer, Boolean, String だけが実装する。
type Hashable interface {
	Object
	HashKey() HashKey
}

func (i *Integer) HashKey() HashKey {
	return HashKey{Type: i.Type(), Int: i.Value}
}

func (b *Boolean) HashKey() HashKey {
	var value int64
	if b.Value {
		value = 1
	}
	return HashKey{Type: b.Type(), Int: value}
}

func (s *String) HashKey() HashKey {
	return HashKey{Type: s.Type(), Str: s.Value}
}

// HashPair はキーのオブジェクトと値の組。
// Inspect でキーを元の形で表示するためにキーも保持する。
type HashPair struct {
	Key   Hashable
	Value Object
}

// Hash はハッシュマップを表すオブジェクト。
// 同じキーへの書き込みは後勝ちで、表示順は最初に書き込まれた順。
type Hash struct {
	pairs map[HashKey]HashPair
	order []HashKey
}

// NewHash は空のハッシュを作る。
func NewHash() *Hash {
	return &Hash{pairs: make(map[HashKey]HashPair)}
}

func (h *Hash) Type() ObjectType { return HASH_OBJ }

// Set はキーに値を書き込む。既存のキーなら値だけを置き換える。
func (h *Hash) Set(key Hashable, value Object) {
	hk := key.HashKey()
	if _, ok := h.pairs[hk]; !ok {
		h.order = append(h.order, hk)
	}
	h.pairs[hk] = HashPair{Key: key, Value: value}
}

// Get はキーに対応する値を返す。
func (h *Hash) Get(key HashKey) (Object, bool) {
	pair, ok := h.pairs[key]
	if !ok {
		return nil, false
	}
	return pair.Value, true
}

// Len はキーの数を返す。
func (h *Hash) Len() int { return len(h.order) }

// Pairs はキーと値の組を挿入順で返す。
func (h *Hash) Pairs() []HashPair {
	pairs := make([]HashPair, 0, len(h.order))
	for _, hk := range h.order {
		pairs = append(pairs, h.pairs[hk])
	}
	return pairs
}

// Inspect は `{k1: v1, k2: v2}` の形式で返す。
func (h *Hash) Inspect() string {
	var out bytes.Buffer

	pairs := []string{}
	for _, pair := range h.Pairs() {
		pairs = append(pairs, pair.Key.Inspect()+": "+pair.Value.Inspect())
	}

	out.WriteString("{")
	out.WriteString(strings.Join(pairs, ", "))
	out.WriteString("}")

	return out.String()
}
