package domain

// The helpers below are pure: they never modify the receiver and always
// return a fresh snapshot.

// HistoryContains reports whether m is already part of the search history.
func (v ViewState) HistoryContains(m Movie) bool {
	for _, item := range v.AdapterList {
		if item == m {
			return true
		}
	}
	return false
}

// WithHistory returns a copy of v with m appended to a copy of the history.
func (v ViewState) WithHistory(m Movie) ViewState {
	list := make([]Movie, len(v.AdapterList), len(v.AdapterList)+1)
	copy(list, v.AdapterList)
	next := v
	next.AdapterList = append(list, m)
	return next
}

// WithSearchedMovie returns a copy of v displaying m.
func (v ViewState) WithSearchedMovie(m Movie) ViewState {
	next := v
	next.SearchedMovieTitle = m.Title
	next.SearchedMovieRating = m.RatingSummary
	next.SearchedMoviePoster = m.PosterURL
	ref := m
	next.SearchedMovieReference = &ref
	return next
}

// WithSearchBoxText returns a copy of v whose search box holds text.
func (v ViewState) WithSearchBoxText(text string) ViewState {
	next := v
	next.SearchBoxText = &text
	return next
}

// Searching returns a copy of v in the loading presentation: the search box is
// cleared, the title shows LoadingTitle and the previous movie is dropped.
func (v ViewState) Searching() ViewState {
	next := v
	next.SearchBoxText = nil
	next.SearchedMovieTitle = LoadingTitle
	next.SearchedMovieRating = ""
	next.SearchedMoviePoster = ""
	next.SearchedMovieReference = nil
	return next
}
