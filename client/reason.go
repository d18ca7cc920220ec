// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package client

// ReasonCode is an MQTT 5.0 disconnect reason code as carried by a server
// DISCONNECT packet.
type ReasonCode byte

// Disconnect reason codes.
const (
	ReasonNormalDisconnection  ReasonCode = 0x00
	ReasonUnspecifiedError     ReasonCode = 0x80
	ReasonMalformedPacket      ReasonCode = 0x81
	ReasonProtocolError        ReasonCode = 0x82
	ReasonNotAuthorized        ReasonCode = 0x87
	ReasonServerBusy           ReasonCode = 0x89
	ReasonServerShuttingDown   ReasonCode = 0x8B
	ReasonKeepAliveTimeout     ReasonCode = 0x8D
	ReasonSessionTakenOver     ReasonCode = 0x8E
	ReasonTopicFilterInvalid   ReasonCode = 0x8F
	ReasonQuotaExceeded        ReasonCode = 0x97
	ReasonAdministrativeAction ReasonCode = 0x98
	ReasonUseAnotherServer     ReasonCode = 0x9C
	ReasonServerMoved          ReasonCode = 0x9D
)

// String returns a human-readable description of the reason code.
func (r ReasonCode) String() string {
	switch r {
	case ReasonNormalDisconnection:
		return "normal disconnection"
	case ReasonUnspecifiedError:
		return "unspecified error"
	case ReasonMalformedPacket:
		return "malformed packet"
	case ReasonProtocolError:
		return "protocol error"
	case ReasonNotAuthorized:
		return "not authorized"
	case ReasonServerBusy:
		return "server busy"
	case ReasonServerShuttingDown:
		return "server shutting down"
	case ReasonKeepAliveTimeout:
		return "keep alive timeout"
	case ReasonSessionTakenOver:
		return "session taken over"
	case ReasonTopicFilterInvalid:
		return "topic filter invalid"
	case ReasonQuotaExceeded:
		return "quota exceeded"
	case ReasonAdministrativeAction:
		return "administrative action"
	case ReasonUseAnotherServer:
		return "use another server"
	case ReasonServerMoved:
		return "server moved"
	default:
		return "unknown reason"
	}
}

// Properties carries the subset of MQTT 5.0 properties attached to a server
// DISCONNECT that is relevant to applications.
type Properties struct {
	ReasonString    string
	ServerReference string
	User            map[string]string
}
