package segment

// BackMatter holds the body boundaries after trimming.
type BackMatter struct {
	// BodyStart is the body's effective start, past any illustrations list.
	BodyStart int
	// Start is where back matter begins; len(text) when none was found.
	Start             int
	Heading           Span
	Found             bool
	IllustrationsList bool
}

const illustrationsListRun = "\n\n\n\n"

// TrimBackMatter moves the body start past a standalone list of
// illustrations or plates, then searches the tail of the text for an
// index or appendix heading.
func (s *Segmenter) TrimBackMatter(text string, bodyStart int) BackMatter {
	bodyStart = min(max(bodyStart, 0), len(text))
	bm := BackMatter{BodyStart: bodyStart, Start: len(text)}

	for _, re := range s.vocab.illustrations {
		body := text[bm.BodyStart:]
		loc := re.FindStringIndex(body[:s.window(len(body), s.cfg.FrontWindow)])
		if loc == nil {
			continue
		}
		if end, ok := runAfter(body, loc[1], illustrationsListRun); ok {
			bm.BodyStart += end + len(illustrationsListRun)
			bm.IllustrationsList = true
		}
	}

	tail := max(len(text)-s.window(len(text), s.cfg.BackWindow), bm.BodyStart)
	if loc := s.vocab.backMatter.FindStringIndex(text[tail:]); loc != nil {
		bm.Start = tail + loc[0]
		bm.Heading = Span{Start: tail + loc[0], End: tail + loc[1]}
		bm.Found = true
	}
	return bm
}
