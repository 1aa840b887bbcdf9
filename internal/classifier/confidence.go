package classifier

// Confidence reported for each way a strategy can match. Higher means the
// evidence pointed more directly at the placement.
const (
	confidenceTagExact          = 1.0
	confidenceTagNormalized     = 0.9
	confidenceTagContains       = 0.75
	confidenceTagBroad          = 0.4
	confidenceFolderPair        = 0.9
	confidenceFolderSubGenre    = 0.8
	confidenceFolderRule        = 0.8
	confidenceFolderRuleContain = 0.6
	confidenceFolderCategory    = 0.5
	confidenceEnrichment        = 0.7
	confidenceEnrichmentHeur    = 0.6
	confidenceTitle             = 0.4
)
