package interview

// StageSplit is a candidate's interviews partitioned by workflow stage.
type StageSplit struct {
	Current []Interview `json:"current"`
	Other   []Interview `json:"other"`
}

// SplitByStage puts the interviews belonging to stageID in Current and the
// rest in Other, keeping input order in both. Interviews with no stage are
// always Other.
func SplitByStage(interviews []Interview, stageID string) StageSplit {
	split := StageSplit{Current: []Interview{}, Other: []Interview{}}
	for _, iv := range interviews {
		if iv.WorkflowStageID != nil && *iv.WorkflowStageID == stageID {
			split.Current = append(split.Current, iv)
			continue
		}
		split.Other = append(split.Other, iv)
	}
	return split
}
