package mines

// flood opens the region around i, which has just been opened with no mined
// neighbours. Only zero cells go on the worklist and every cell is opened
// the moment it is discovered, so each index is pushed at most once.
//
// Flagged squares are not covered squares: the flood stops at them.
func (b *Board) flood(i int) {
	b.todo.PushBack(i)

	for b.todo.Len() > 0 {
		i = b.todo.PopBack()
		col, row := i%b.width, i/b.width

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				c, r := col+dx, row+dy
				if !b.InBounds(c, r) {
					continue
				}
				j := r*b.width + c
				if b.cells[j] != Covered {
					continue
				}
				n := b.mineNeighbors(c, r)
				b.cells[j] = n
				b.safe--
				if n == 0 {
					b.todo.PushBack(j)
				}
			}
		}
	}
}
