package config

import "fmt"

type ChannelKeyStruct struct {
	prefix string
}

// RegistrationEvents returns the Redis Pub/Sub channel carrying registration changes.
func (k *ChannelKeyStruct) RegistrationEvents() string {
	return fmt.Sprintf("%s:registrations", k.prefix)
}

// StudentEvents returns the per-student channel, used by clients watching one student.
func (k *ChannelKeyStruct) StudentEvents(studentID int) string {
	return fmt.Sprintf("%s:student:%d:registrations", k.prefix, studentID)
}

var ChannelKey = &ChannelKeyStruct{prefix: "registrar"}
