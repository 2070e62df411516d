package queue

// Sort orders the queue ascending by byte-wise string comparison.
// Equal values keep their relative order.
func (q *Queue) Sort() {
	if q == nil || q.size < 2 {
		return
	}

	q.head = mergeSort(q.head)

	rear := q.head
	for rear.next != nil {
		rear = rear.next
	}

	q.rear = rear
}

func mergeSort(head *node) *node {
	if head == nil || head.next == nil {
		return head
	}

	front, back := split(head)

	return merge(mergeSort(front), mergeSort(back))
}

// split cuts the chain after its middle node. The front half gets the extra node on odd lengths.
func split(head *node) (*node, *node) {
	slow, fast := head, head.next
	for fast != nil && fast.next != nil {
		slow = slow.next
		fast = fast.next.next
	}

	back := slow.next
	slow.next = nil

	return head, back
}

// merge takes from left on ties.
func merge(left, right *node) *node {
	var sentinel node

	tail := &sentinel

	for left != nil && right != nil {
		if right.value < left.value {
			tail.next = right
			right = right.next
		} else {
			tail.next = left
			left = left.next
		}

		tail = tail.next
	}

	if left != nil {
		tail.next = left
	} else {
		tail.next = right
	}

	return sentinel.next
}
