package replacement

// FIFOPolicy reclaims frames in round-robin order. The victim sequence is
// 0, 1, ..., N-1, 0, ... regardless of the access pattern.
type FIFOPolicy struct {
	numFrames  int
	nextVictim int
}

// NewFIFO creates a FIFO policy over numFrames frames.
func NewFIFO(numFrames int) *FIFOPolicy {
	numFramesMustBePositive(numFrames)

	return &FIFOPolicy{numFrames: numFrames}
}

// Name returns "FIFO".
func (p *FIFOPolicy) Name() string {
	return "FIFO"
}

// ChooseVictim returns the frame under the cursor.
func (p *FIFOPolicy) ChooseVictim() int {
	return p.nextVictim
}

// OnAccess does nothing. FIFO does not care about hits.
func (p *FIFOPolicy) OnAccess(frame int) {
	frameMustBeInRange(frame, p.numFrames)
}

// OnInstall advances the cursor.
func (p *FIFOPolicy) OnInstall(frame int) {
	frameMustBeInRange(frame, p.numFrames)

	p.nextVictim = (p.nextVictim + 1) % p.numFrames
}
