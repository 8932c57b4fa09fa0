package page

// Page load status. Queued, loadingMetadata and downloadingImage are loading
// states, the rest are terminal for a single load attempt.
// ENUM(queued, loadingMetadata, downloadingImage, ready, skip, error)
type Status int

// IsLoading reports whether load attempt is still in progress.
func (x Status) IsLoading() bool {
	switch x {
	case StatusQueued, StatusLoadingMetadata, StatusDownloadingImage:
		return true
	}
	return false
}

// IsSettled is the opposite of IsLoading.
func (x Status) IsSettled() bool {
	return !x.IsLoading()
}

// Page variant tag.
// ENUM(original, proxy)
type Kind int
