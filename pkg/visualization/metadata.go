package visualization

// SweepMetadata identifies the sweep a report was produced from.
type SweepMetadata struct {
	sweepID  string
	sweepDir string
}

// NewSweepMetadata is the SweepMetadata constructor.
func NewSweepMetadata(ID, dir string) *SweepMetadata {
	return &SweepMetadata{
		ID,
		dir,
	}
}

// String returns a printable string with the sweep metadata.
func (metadata *SweepMetadata) String() string {
	return "Sweep id: " + metadata.sweepID + " (" + metadata.sweepDir + ")"
}
