package extract

type fakePage struct {
	text  string
	table [][]string
	panic bool
}

func (p fakePage) Text() string {
	if p.panic {
		panic("broken content stream")
	}
	return p.text
}

func (p fakePage) Table() [][]string {
	if p.panic {
		panic("broken content stream")
	}
	return p.table
}

type fakeDocument []Page

func (d fakeDocument) Pages() []Page {
	return d
}

func textDocument(texts ...string) fakeDocument {
	doc := make(fakeDocument, 0, len(texts))
	for _, text := range texts {
		doc = append(doc, fakePage{text: text})
	}
	return doc
}
