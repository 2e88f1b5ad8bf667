package ws

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"aquaguard.ai/internal/protocol"
	"aquaguard.ai/internal/session"
	"aquaguard.ai/internal/sim/river"
)

const (
	helloTimeout = 5 * time.Second
	readTimeout  = 5 * time.Minute
	writeTimeout = 5 * time.Second
)

type Server struct {
	mgr *session.Manager
	log *log.Logger

	upgrader websocket.Upgrader
}

func NewServer(mgr *session.Manager, logger *log.Logger) *Server {
	return &Server{
		mgr: mgr,
		log: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  16 * 1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
}

// Handler runs one session protocol conversation per connection. All
// requests are answered in order on the same connection, so writes stay
// synchronous; there is no server push outside a request.
func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		sess := s.handshake(conn)
		if sess == nil {
			return
		}
		s.log.Printf("session %s connected (day %d)", sess.ID, sess.Day())

		for {
			_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				break
			}
			base, err := protocol.DecodeBase(msg)
			if err != nil {
				s.reject(conn, "", protocol.ErrProtoBadRequest, "not a JSON message")
				continue
			}
			if base.ProtocolVersion != protocol.Version {
				s.reject(conn, base.Type, protocol.ErrProtoBadRequest, "bad protocol_version")
				continue
			}

			switch base.Type {
			case protocol.TypeAdvance:
				s.handleAdvance(conn, sess, msg)
			case protocol.TypeReset:
				sess.Reset()
				s.log.Printf("session %s reset", sess.ID)
				_ = writeJSON(conn, sess.StateMsg())
			default:
				s.reject(conn, base.Type, protocol.ErrProtoBadRequest, "unknown type")
			}
		}

		// The session stays resumable after a disconnect; nothing to tear down.
		s.log.Printf("session %s disconnected (day %d)", sess.ID, sess.Day())
	}
}

func (s *Server) handleAdvance(conn *websocket.Conn, sess *session.Session, msg []byte) {
	var adv protocol.AdvanceMsg
	if err := json.Unmarshal(msg, &adv); err != nil {
		s.reject(conn, protocol.TypeAdvance, protocol.ErrProtoBadRequest, "malformed ADVANCE")
		return
	}

	state, err := sess.Advance(adv.Day, inputsFromMsg(adv.Inputs), policiesFromMsg(adv.Policies))
	if err != nil {
		code := protocol.ErrInternal
		switch {
		case errors.Is(err, session.ErrStaleDay):
			code = protocol.ErrStale
		case errors.Is(err, session.ErrStoryComplete):
			code = protocol.ErrStoryComplete
		}
		_ = writeJSON(conn, protocol.ResultMsg{
			Type:            protocol.TypeResult,
			ProtocolVersion: protocol.Version,
			For:             protocol.TypeAdvance,
			Accepted:        false,
			Code:            code,
			Message:         err.Error(),
			Day:             sess.Day(),
		})
		return
	}
	_ = writeJSON(conn, state)
}

// handshake reads the HELLO, resolves (or creates) the session, and sends
// WELCOME followed by an initial STATE snapshot. A nil return means the
// connection is unusable and already closed or closing.
func (s *Server) handshake(conn *websocket.Conn) *session.Session {
	_ = conn.SetReadDeadline(time.Now().Add(helloTimeout))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return nil
	}

	base, err := protocol.DecodeBase(msg)
	if err != nil || base.Type != protocol.TypeHello {
		closePolicy(conn, "expected HELLO")
		return nil
	}

	var hello protocol.HelloMsg
	if err := json.Unmarshal(msg, &hello); err != nil {
		closePolicy(conn, "malformed HELLO")
		return nil
	}
	if hello.ProtocolVersion != protocol.Version {
		closePolicy(conn, "bad protocol_version")
		return nil
	}
	name := strings.TrimSpace(hello.PlayerName)
	if name == "" {
		name = "steward"
	}

	var sess *session.Session
	if hello.Auth != nil && hello.Auth.ResumeToken != "" {
		sess, _ = s.mgr.Resume(strings.TrimSpace(hello.Auth.ResumeToken))
	}
	if sess == nil {
		sess, err = s.mgr.Create(name)
		if err != nil {
			_ = writeJSON(conn, protocol.ResultMsg{
				Type:            protocol.TypeResult,
				ProtocolVersion: protocol.Version,
				For:             protocol.TypeHello,
				Accepted:        false,
				Code:            protocol.ErrSessionLimit,
				Message:         err.Error(),
			})
			return nil
		}
	}

	welcome := protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		SessionID:       sess.ID,
		ResumeToken:     sess.ResumeToken,
		SimParams: protocol.SimParams{
			StoryDays: s.mgr.StoryDays(),
			Seed:      s.mgr.Seed(),
		},
	}
	if err := writeJSON(conn, welcome); err != nil {
		return nil
	}
	if err := writeJSON(conn, sess.StateMsg()); err != nil {
		return nil
	}
	return sess
}

func (s *Server) reject(conn *websocket.Conn, forType, code, reason string) {
	_ = writeJSON(conn, protocol.ResultMsg{
		Type:            protocol.TypeResult,
		ProtocolVersion: protocol.Version,
		For:             forType,
		Accepted:        false,
		Code:            code,
		Message:         reason,
	})
}

func inputsFromMsg(in protocol.InputsMsg) river.PollutionInputs {
	return river.PollutionInputs{
		FactoryOutput:  in.FactoryOutput,
		FarmActivity:   in.FarmActivity,
		UrbanExpansion: in.UrbanExpansion,
	}
}

func policiesFromMsg(p protocol.PoliciesMsg) river.PolicyFlags {
	return river.PolicyFlags{
		WastewaterTreatment: p.WastewaterTreatment,
		OrganicFarming:      p.OrganicFarming,
		EmissionRegulation:  p.EmissionRegulation,
		CleanupDrive:        p.CleanupDrive,
	}
}

func closePolicy(conn *websocket.Conn, reason string) {
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason),
		time.Now().Add(time.Second))
}

func writeJSON(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteMessage(websocket.TextMessage, b)
}
