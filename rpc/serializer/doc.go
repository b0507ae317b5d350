// Package serializer provides reply serialization for the line protocol. It
// defines a common interface and two implementations for serializing and
// deserializing replies between server and client.
//
// Every serialized reply is exactly one line. The transport appends the line
// terminator, so serializers never emit a '\n'.
//
// Key Components:
//
//   - IRPCSerializer: Core interface that all serializer implementations must satisfy.
//
//   - textSerializerImpl: The default, human readable format ("OK true",
//     "NOT_FOUND", "INVALID invalid protocol: \"HTTP/3\"", ...). Values that
//     contain a line break can not be represented and are rejected.
//
//   - jsonSerializerImpl: One JSON object per line. Values are base64 encoded,
//     so any value can be transported.
//
// Thread Safety:
//
//	All serializer implementations are stateless and safe for concurrent use
//	across multiple goroutines without additional synchronization.
//
// Usage:
//
//	s, err := serializer.New("text")
//	data, err := s.Serialize(*common.NewOKReply([]byte("true")))
//	// ... send data ...
//	var reply common.Reply
//	err = s.Deserialize(receivedData, &reply)
package serializer
