// Package tasks implements the incremental fetch-classify-reconcile pipeline.
//
// The core abstraction is PipelineEngine, which orchestrates one run:
//  1. Paginate the playlist source, deduping items and stopping early at the
//     publish-date cutoff
//  2. Normalize raw items into records and sort them newest-first
//  3. Classify titles into game categories (fuzzy or exact matching)
//  4. Reconcile classified records against the persisted sheet without
//     disturbing existing rows
//  5. Summarize the merged sheet
//
// Operations emit progress updates via channels for non-blocking status
// reporting to CLI/UI layers. Pagination state (cursor plus dedup set) is a
// plain value owned by the caller, so independent runs never share hidden
// state.
package tasks
