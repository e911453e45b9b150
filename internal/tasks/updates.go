package tasks

import "fmt"

// ProgressUpdate represents a progress event during a pipeline run.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
}

// Operation phase enumeration
type Phase int

const (
	FetchPages Phase = iota
	NormalizeItems
	ClassifyTitles
	LoadSheet
	MergeSheet
	WriteSheet
	SummarizeSheet
)

func (p Phase) String() string {
	switch p {
	case FetchPages:
		return "fetch_pages"
	case NormalizeItems:
		return "normalize_items"
	case ClassifyTitles:
		return "classify_titles"
	case LoadSheet:
		return "load_sheet"
	case MergeSheet:
		return "merge_sheet"
	case WriteSheet:
		return "write_sheet"
	case SummarizeSheet:
		return "summarize_sheet"
	default:
		return ""
	}
}

func fetchPagesUpdate(maxPages int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPages,
		Step:    1,
		Total:   maxPages,
		Message: "Fetching playlist pages...",
	}
}

func normalizeUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   NormalizeItems,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Normalizing %d fetched items...", count),
	}
}

func classifyUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ClassifyTitles,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Classifying %d titles...", count),
	}
}

func loadSheetUpdate(backend string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   LoadSheet,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Loading persisted sheet (%s)...", backend),
	}
}

func mergeSheetUpdate(fresh, existing int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   MergeSheet,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Merging %d fresh records into %d existing rows...", fresh, existing),
	}
}

func writeSheetUpdate(rows int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteSheet,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Writing %d rows back...", rows),
	}
}

func summarizeUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   SummarizeSheet,
		Step:    1,
		Total:   1,
		Message: "Computing summary statistics...",
	}
}
