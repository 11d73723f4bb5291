package http

func (h *HTTP) SetState(state ServerState) {
	h.once.Do(h.setup)
	h.setState(state)
}
