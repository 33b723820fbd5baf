package mqtt

import "fmt"

// maxPayloadSize caps outgoing payloads at 1MB.
const maxPayloadSize = 1 << 20

// Publish sends payload to topic and waits for the broker acknowledgment.
//
// Events go out with retained=false. Only the service status is retained.
func (c *Client) Publish(topic string, payload []byte, qos byte, retained bool) error {
	if err := checkRoute(topic, qos); err != nil {
		return err
	}
	if len(payload) > maxPayloadSize {
		return fmt.Errorf("%w: payload size %d exceeds maximum %d bytes", ErrPublishFailed, len(payload), maxPayloadSize)
	}
	if !c.IsConnected() {
		return ErrNotConnected
	}
	return await(c.paho.Publish(topic, qos, retained, payload), operationTimeout, ErrPublishFailed)
}

// publishStatus writes the retained service status.
func (c *Client) publishStatus(status, reason string) error {
	payload := statusPayload(c.cfg.Broker.ClientID, status, reason)
	return await(c.paho.Publish(c.topics.SystemStatus(), c.QoS(), true, payload), operationTimeout, ErrPublishFailed)
}
