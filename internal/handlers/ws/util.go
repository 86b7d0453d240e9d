package ws

import "encoding/json"

// Serialize wraps a message in the {type, payload} wire envelope.
func Serialize(msg Message) ([]byte, error) {
	payload, err := ToJson(msg)
	if err != nil {
		return nil, err
	}
	return json.Marshal(SerializedMessage{Type: msg.GetType(), Payload: payload})
}

// Deserialize parses a wire frame into its concrete message type. Frames
// carrying an unregistered type are rejected, never silently dropped.
func Deserialize(frame []byte) (Message, error) {
	var wrapper SerializedMessage
	if err := json.Unmarshal(frame, &wrapper); err != nil {
		return nil, err
	}

	msg, err := CreateMessage(wrapper.Type, typeRegistry)
	if err != nil {
		return nil, err
	}
	if err := FromJson(wrapper.Payload, msg); err != nil {
		return nil, err
	}
	return msg, nil
}
