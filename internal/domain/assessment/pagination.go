package assessment

// List questions with many options are windowed into pages. The control
// rows below navigate between pages and never count as selections; the
// current page index lives under PaginationKey in the session responses
// and is stripped on completion.

const (
	// PageSize is the maximum number of option rows shown per page.
	PageSize = 8

	// PaginationKey is the reserved response key for page bookkeeping.
	PaginationKey = "_page"

	// ControlPrevPage and ControlNextPage are the synthetic row ids.
	ControlPrevPage = "prev_page"
	ControlNextPage = "next_page"
)

// Page is one rendered window of a long option list.
type Page struct {
	Options []Option
	Index   int
	Total   int
}

func isPaginationControl(token string) bool {
	return token == ControlPrevPage || token == ControlNextPage
}

// NeedsPaging reports whether a question's option list must be windowed.
func NeedsPaging(q *QuestionDefinition) bool {
	return q.Type == TypeList && len(q.Options) > PageSize
}

// WindowOptions slices the option list into the requested page and
// appends the applicable control rows.
func WindowOptions(options []Option, page int) Page {
	total := (len(options) + PageSize - 1) / PageSize
	if total == 0 {
		total = 1
	}
	if page < 0 {
		page = 0
	}
	if page >= total {
		page = total - 1
	}

	start := page * PageSize
	end := start + PageSize
	if end > len(options) {
		end = len(options)
	}

	window := make([]Option, 0, PageSize+2)
	window = append(window, options[start:end]...)
	if page > 0 {
		window = append(window, Option{ID: ControlPrevPage, Title: "Previous page"})
	}
	if page < total-1 {
		window = append(window, Option{ID: ControlNextPage, Title: "More options"})
	}

	return Page{Options: window, Index: page, Total: total}
}

// CurrentPage reads the stored page index for the session, defaulting to
// the first page.
func CurrentPage(s *Session) int {
	raw, ok := s.Responses.Get(PaginationKey)
	if !ok {
		return 0
	}
	switch v := raw.(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return 0
	}
}

// ApplyPageControl adjusts the stored page index for a control token and
// reports whether the token was a pagination control.
func ApplyPageControl(s *Session, token string, totalPages int) bool {
	page := CurrentPage(s)
	switch token {
	case ControlNextPage:
		if page < totalPages-1 {
			page++
		}
	case ControlPrevPage:
		if page > 0 {
			page--
		}
	default:
		return false
	}
	s.Responses.Set(PaginationKey, page)
	return true
}

// ResetPaging clears the stored page index when moving to a new question.
func ResetPaging(s *Session) {
	s.Responses.Delete(PaginationKey)
}
