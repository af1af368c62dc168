package reconnection

import "github.com/srediag/plugin-reconnect/pkg/gewechat"

// SelfTest calls the reconnect endpoint once to make sure it is reachable and
// configured. The result is advisory: it is logged and returned, never fatal.
func (s *Supervisor) SelfTest() ReconnectOutcome {
	resp, err := s.callReconnect()
	var outcome ReconnectOutcome
	switch {
	case err == nil && resp.Ret == gewechat.RetOK:
		outcome = OutcomeReconnected
		s.log.infof("reconnect succeeded")
	case err == nil:
		outcome = OutcomeFailed
		s.log.errorf("reconnect endpoint anomaly: ret=%d msg=%s", resp.Ret, resp.Msg)
	case s.detector.IsBenign(err):
		outcome = OutcomeAlreadyConnected
		s.log.infof("reconnect endpoint is working")
	default:
		outcome = OutcomeFailed
		s.log.errorf("reconnect endpoint anomaly: %v", err)
	}
	s.metrics.observeReconnect(sourceSelfTest, outcome)
	return outcome
}
