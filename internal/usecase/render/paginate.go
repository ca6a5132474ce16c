package render

type paginator struct {
	capacity int
	pages    []Page
	cur      *Page
	// fresh is true while the current page only holds a repeated header
	fresh  bool
	header *Block
}

func newPaginator(opts Options) *paginator {
	p := &paginator{capacity: opts.capacity()}
	p.newPage()
	return p
}

func (p *paginator) newPage() {
	p.pages = append(p.pages, Page{Blocks: make([]Block, 0)})
	p.cur = &p.pages[len(p.pages)-1]
	p.fresh = true
	if p.header != nil {
		p.add(*p.header)
		p.fresh = true
	}
}

func (p *paginator) remaining() int {
	return p.capacity - p.cur.Used
}

func (p *paginator) add(b Block) {
	p.cur.Blocks = append(p.cur.Blocks, b)
	p.cur.Used += b.Height
	p.fresh = false
}

func (p *paginator) place(item flowItem) {
	b := item.block

	switch b.Kind {
	case BlockSpacer:
		// Spacers never open a page and are dropped when they do not fit.
		if len(p.cur.Blocks) == 0 || b.Height > p.remaining() {
			return
		}
		p.add(b)
		return

	case BlockSection:
		need := b.Height + item.keepWith
		if need > p.capacity {
			need = p.capacity
		}
		if need > p.remaining() && len(p.cur.Blocks) > 0 {
			p.newPage()
		}
		p.add(b)
		return

	case BlockTableHeader:
		if b.Height > p.remaining() {
			p.newPage()
		}
		p.add(b)
		if item.startsTable {
			h := b
			p.header = &h
		}
		return
	}

	if b.Height > p.remaining() && !p.fresh && len(p.cur.Blocks) > 0 {
		p.newPage()
	}
	if b.Height > p.remaining() {
		b = clip(b, p.remaining())
	}
	p.add(b)

	if item.endsTable {
		p.header = nil
	}
}

// clip cuts a block to at most n lines
func clip(b Block, n int) Block {
	if n < 1 {
		n = 1
	}
	b.Height = n
	if b.Row != nil {
		row := *b.Row
		cells := make([]Cell, len(row.Cells))
		for i, c := range row.Cells {
			lines := c.Lines
			if len(lines) > n {
				lines = lines[:n]
			}
			cells[i] = Cell{Lines: lines}
		}
		row.Cells = cells
		row.Height = n
		row.Clipped = true
		b.Row = &row
	}
	if len(b.Lines) > n {
		b.Lines = b.Lines[:n]
	}
	return b
}

func (p *paginator) finish() []Page {
	return p.pages
}
