package queue

import (
	"math/rand"
	"sort"
	"strconv"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lueurxax/strqueue/internal/alloc"
	"github.com/lueurxax/strqueue/internal/queue/mocks"
)

func fromValues(values ...string) *Queue {
	q := New()
	for _, v := range values {
		q.InsertTail(v)
	}

	return q
}

func TestQueue_nil(t *testing.T) {
	var q *Queue

	assert.False(t, q.InsertHead("a"))
	assert.False(t, q.InsertTail("a"))
	assert.False(t, q.RemoveHead(make([]byte, 8)))
	assert.False(t, q.RemoveHead(nil))
	assert.Equal(t, 0, q.Size())
	assert.Nil(t, q.Values())
	assert.NoError(t, q.Check())

	_, ok := q.PopHead()
	assert.False(t, ok)

	assert.NotPanics(t, func() {
		q.Reverse()
		q.Sort()
		q.Free()
	})
}

func TestQueue_Insert(t *testing.T) {
	tests := []struct {
		name string
		head []string
		tail []string
		want []string
	}{
		{name: "empty"},
		{name: "head only", head: []string{"a", "b", "c"}, want: []string{"c", "b", "a"}},
		{name: "tail only", tail: []string{"a", "b", "c"}, want: []string{"a", "b", "c"}},
		{name: "both", head: []string{"b", "a"}, tail: []string{"c", "d"}, want: []string{"a", "b", "c", "d"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := New()
			for _, v := range tt.head {
				require.True(t, q.InsertHead(v))
			}

			for _, v := range tt.tail {
				require.True(t, q.InsertTail(v))
			}

			assert.Equal(t, len(tt.want), q.Size())
			assert.Equal(t, append([]string{}, tt.want...), q.Values())
			assert.NoError(t, q.Check())
		})
	}
}

func TestQueue_InsertHead_copiesValue(t *testing.T) {
	buf := []byte("mutable")
	q := New()
	require.True(t, q.InsertHead(string(buf)))

	buf[0] = 'M'

	v, ok := q.PopHead()
	require.True(t, ok)
	assert.Equal(t, "mutable", v)
}

func TestQueue_RemoveHead(t *testing.T) {
	t.Run("inverse of insert head", func(t *testing.T) {
		q := New()
		require.True(t, q.InsertHead("x"))

		buf := make([]byte, 16)
		require.True(t, q.RemoveHead(buf))
		assert.Equal(t, "x", BufferString(buf))
		assert.Equal(t, 0, q.Size())
		assert.NoError(t, q.Check())
	})

	t.Run("truncates to buffer", func(t *testing.T) {
		q := fromValues("abcdefgh", "next")

		buf := make([]byte, 4)
		require.True(t, q.RemoveHead(buf))
		assert.Equal(t, []byte{'a', 'b', 'c', 0}, buf)
		assert.Equal(t, []string{"next"}, q.Values())
	})

	t.Run("one byte buffer gets terminator only", func(t *testing.T) {
		q := fromValues("abc")

		buf := []byte{'z'}
		require.True(t, q.RemoveHead(buf))
		assert.Equal(t, []byte{0}, buf)
	})

	t.Run("empty buffer", func(t *testing.T) {
		q := fromValues("abc")

		require.True(t, q.RemoveHead([]byte{}))
		assert.Equal(t, 0, q.Size())
	})

	t.Run("nil buffer discards", func(t *testing.T) {
		q := fromValues("a", "b")

		require.True(t, q.RemoveHead(nil))
		assert.Equal(t, []string{"b"}, q.Values())
	})

	t.Run("empty queue", func(t *testing.T) {
		q := New()

		assert.False(t, q.RemoveHead(make([]byte, 8)))
		assert.Equal(t, 0, q.Size())
		assert.NoError(t, q.Check())
	})

	t.Run("drain then reuse", func(t *testing.T) {
		q := fromValues("a", "b")
		require.True(t, q.RemoveHead(nil))
		require.True(t, q.RemoveHead(nil))
		require.NoError(t, q.Check())

		require.True(t, q.InsertTail("c"))
		assert.Equal(t, []string{"c"}, q.Values())
		assert.NoError(t, q.Check())
	})
}

func TestQueue_InsertTail_usesRear(t *testing.T) {
	q := New()
	for i := 0; i < 10000; i++ {
		require.True(t, q.InsertTail(strconv.Itoa(i)))
	}

	oldRear := q.rear
	// a traversal from head would stop at the cut and link after head
	q.head.next = nil

	require.True(t, q.InsertTail("last"))
	assert.Same(t, oldRear.next, q.rear)
	assert.Equal(t, "last", q.rear.value)
	assert.Nil(t, q.head.next)
}

func TestQueue_Reverse(t *testing.T) {
	tests := []struct {
		name   string
		values []string
	}{
		{name: "empty"},
		{name: "single", values: []string{"a"}},
		{name: "pair", values: []string{"a", "b"}},
		{name: "many", values: []string{"a", "b", "c", "d", "e"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := fromValues(tt.values...)

			q.Reverse()
			require.NoError(t, q.Check())

			reversed := make([]string, 0, len(tt.values))
			for i := len(tt.values) - 1; i >= 0; i-- {
				reversed = append(reversed, tt.values[i])
			}

			assert.Equal(t, reversed, q.Values())

			q.Reverse()
			require.NoError(t, q.Check())
			assert.Equal(t, append([]string{}, tt.values...), q.Values())
		})
	}
}

func TestQueue_Reverse_keepsNodes(t *testing.T) {
	q := fromValues("a", "b", "c")
	head, rear := q.head, q.rear

	q.Reverse()

	assert.Same(t, rear, q.head)
	assert.Same(t, head, q.rear)
	assert.Nil(t, q.rear.next)
}

func TestQueue_Sort(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   []string
	}{
		{name: "empty", want: []string{}},
		{name: "single", values: []string{"a"}, want: []string{"a"}},
		{name: "sorted", values: []string{"a", "b", "c"}, want: []string{"a", "b", "c"}},
		{name: "reversed", values: []string{"e", "d", "c", "b", "a"}, want: []string{"a", "b", "c", "d", "e"}},
		{
			name:   "duplicates",
			values: []string{"banana", "apple", "apple", "cherry"},
			want:   []string{"apple", "apple", "banana", "cherry"},
		},
		{name: "byte order", values: []string{"b", "B", "", "a"}, want: []string{"", "B", "a", "b"}},
		{name: "prefixes", values: []string{"abc", "ab", "a"}, want: []string{"a", "ab", "abc"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := fromValues(tt.values...)

			q.Sort()
			require.NoError(t, q.Check())
			assert.Equal(t, tt.want, q.Values())

			q.Sort()
			require.NoError(t, q.Check())
			assert.Equal(t, tt.want, q.Values())
		})
	}
}

func TestQueue_Sort_stable(t *testing.T) {
	q := fromValues("banana", "apple", "cherry", "apple", "banana", "apple")

	var apples, bananas []*node

	for n := q.head; n != nil; n = n.next {
		switch n.value {
		case "apple":
			apples = append(apples, n)
		case "banana":
			bananas = append(bananas, n)
		}
	}

	q.Sort()
	require.NoError(t, q.Check())

	var got []*node
	for n := q.head; n != nil; n = n.next {
		got = append(got, n)
	}

	require.Len(t, got, 6)

	for i, n := range append(apples, bananas...) {
		assert.Samef(t, n, got[i], "position %d", i)
	}

	assert.Equal(t, "cherry", got[5].value)
	assert.Same(t, got[5], q.rear)
}

func TestQueue_randomOperations(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	q := New()

	var model []string

	for i := 0; i < 5000; i++ {
		value := strconv.Itoa(rnd.Intn(50))

		switch rnd.Intn(6) {
		case 0:
			require.True(t, q.InsertHead(value))
			model = append([]string{value}, model...)
		case 1:
			require.True(t, q.InsertTail(value))
			model = append(model, value)
		case 2:
			v, ok := q.PopHead()
			require.Equal(t, len(model) > 0, ok)

			if ok {
				require.Equal(t, model[0], v)
				model = model[1:]
			}
		case 3:
			q.Reverse()

			for l, r := 0, len(model)-1; l < r; l, r = l+1, r-1 {
				model[l], model[r] = model[r], model[l]
			}
		case 4:
			q.Sort()

			sort.SliceStable(model, func(i, j int) bool { return model[i] < model[j] })
		case 5:
			require.Equal(t, len(model), q.Size())
		}

		require.NoError(t, q.Check())
		require.Equal(t, len(model), q.Size())
	}

	assert.Equal(t, append([]string{}, model...), q.Values())
}

func TestQueue_Check(t *testing.T) {
	t.Run("size mismatch", func(t *testing.T) {
		q := fromValues("a", "b")
		q.size = 3
		assert.ErrorIs(t, q.Check(), ErrCorrupted)
	})

	t.Run("cycle", func(t *testing.T) {
		q := fromValues("a", "b", "c")
		q.rear.next = q.head
		assert.ErrorIs(t, q.Check(), ErrCorrupted)
		assert.Len(t, q.Values(), 3)
	})

	t.Run("stale rear", func(t *testing.T) {
		q := fromValues("a", "b")
		q.rear = q.head
		assert.ErrorIs(t, q.Check(), ErrCorrupted)
	})

	t.Run("rear without head", func(t *testing.T) {
		q := fromValues("a")
		q.head = nil
		assert.ErrorIs(t, q.Check(), ErrCorrupted)
	})
}

func TestQueue_allocationFailure(t *testing.T) {
	t.Run("header refused", func(t *testing.T) {
		a := mocks.NewMockAllocator(gomock.NewController(t))
		a.EXPECT().Alloc(headerBlock).Return(false)

		q, err := NewWithAllocator(a)
		assert.ErrorIs(t, err, ErrAllocation)
		assert.Nil(t, q)
	})

	t.Run("node refused", func(t *testing.T) {
		a := mocks.NewMockAllocator(gomock.NewController(t))
		a.EXPECT().Alloc(headerBlock).Return(true)
		a.EXPECT().Alloc(nodeBlock).Return(false).Times(2)

		q, err := NewWithAllocator(a)
		require.NoError(t, err)

		assert.False(t, q.InsertHead("a"))
		assert.False(t, q.InsertTail("a"))
		assert.Equal(t, 0, q.Size())
		assert.NoError(t, q.Check())
	})

	t.Run("string refused rolls back node", func(t *testing.T) {
		a := mocks.NewMockAllocator(gomock.NewController(t))
		gomock.InOrder(
			a.EXPECT().Alloc(headerBlock).Return(true),
			a.EXPECT().Alloc(nodeBlock).Return(true),
			a.EXPECT().Alloc(valueBlock("first")).Return(true),
			a.EXPECT().Alloc(nodeBlock).Return(true),
			a.EXPECT().Alloc(valueBlock("second")).Return(false),
			a.EXPECT().Free(nodeBlock),
		)

		q, err := NewWithAllocator(a)
		require.NoError(t, err)
		require.True(t, q.InsertTail("first"))

		assert.False(t, q.InsertHead("second"))
		assert.Equal(t, []string{"first"}, q.Values())
		assert.Equal(t, 1, q.Size())
		assert.NoError(t, q.Check())
	})

	t.Run("faulty allocator keeps queue valid", func(t *testing.T) {
		a := alloc.NewFaulty(7, 30)

		q, err := NewWithAllocator(a)
		for err != nil {
			q, err = NewWithAllocator(a)
		}

		inserted := 0

		for i := 0; i < 1000; i++ {
			if q.InsertTail(strconv.Itoa(i)) {
				inserted++
			}

			require.NoError(t, q.Check())
		}

		assert.Equal(t, inserted, q.Size())
		assert.Positive(t, a.Failures())

		q.Free()
		assert.Equal(t, 0, a.Blocks())
		assert.Equal(t, 0, a.Bytes())
	})
}

func TestQueue_Free(t *testing.T) {
	a := alloc.NewHeap()

	q, err := NewWithAllocator(a)
	require.NoError(t, err)

	for _, v := range []string{"a", "bb", "ccc"} {
		require.True(t, q.InsertHead(v))
	}

	require.True(t, q.RemoveHead(nil))
	assert.Equal(t, 5, a.Blocks())

	q.Sort()
	q.Reverse()
	assert.Equal(t, 5, a.Blocks())

	q.Free()
	assert.Equal(t, 0, a.Blocks())
	assert.Equal(t, 0, a.Bytes())
}

func TestBufferString(t *testing.T) {
	assert.Equal(t, "ab", BufferString([]byte{'a', 'b', 0, 'c'}))
	assert.Equal(t, "abc", BufferString([]byte("abc")))
	assert.Equal(t, "", BufferString(nil))
}

func BenchmarkQueue_InsertTail(b *testing.B) {
	for i := 0; i < b.N; i++ {
		q := New()
		for j := 0; j < 10000; j++ {
			q.InsertTail("value")
		}
	}
}

func BenchmarkQueue_Sort(b *testing.B) {
	rnd := rand.New(rand.NewSource(1))
	values := make([]string, 10000)

	for i := range values {
		values[i] = strconv.Itoa(rnd.Int())
	}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		b.StopTimer()

		q := fromValues(values...)

		b.StartTimer()
		q.Sort()
	}
}
