package domain

// ResultType names a result kind for logs.
type ResultType string

const (
	ResultScreenLoad    ResultType = "ScreenLoadResult"
	ResultSearchMovie   ResultType = "SearchMovieResult"
	ResultSearchHistory ResultType = "SearchHistoryResult"
)

// Result is the outcome of a use case, folded into ViewState by the reducer.
// The set of implementations is closed to this package.
type Result interface {
	Type() ResultType
	isResult()
}

// ScreenLoadResult marks that the screen finished loading.
type ScreenLoadResult struct{}

// SearchMovieResult carries the movie to display.
type SearchMovieResult struct {
	Movie Movie
}

// SearchHistoryResult carries the movie to append to history.
// Movie is nil when the movie is already in the history.
type SearchHistoryResult struct {
	Movie *Movie
}

func (ScreenLoadResult) Type() ResultType    { return ResultScreenLoad }
func (SearchMovieResult) Type() ResultType   { return ResultSearchMovie }
func (SearchHistoryResult) Type() ResultType { return ResultSearchHistory }

func (ScreenLoadResult) isResult()    {}
func (SearchMovieResult) isResult()   {}
func (SearchHistoryResult) isResult() {}
