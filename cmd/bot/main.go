package main

import (
	"encoding/json"
	"flag"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/websocket"

	"aquaguard.ai/internal/protocol"
)

func main() {
	var (
		url   = flag.String("url", "ws://localhost:8080/v1/ws", "ws url")
		name  = flag.String("name", "bot", "player name")
		days  = flag.Int("days", 60, "days to simulate before exiting")
		seed  = flag.Int64("seed", 0, "input randomizer seed (0 picks a time-based seed)")
		pause = flag.Duration("pause", 50*time.Millisecond, "delay between days")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[bot] ", log.LstdFlags|log.Lmicroseconds)
	conn, _, err := websocket.DefaultDialer.Dial(*url, nil)
	if err != nil {
		logger.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	r := rand.New(rand.NewSource(*seed))

	hello := protocol.HelloMsg{
		Type:            protocol.TypeHello,
		ProtocolVersion: protocol.Version,
		PlayerName:      *name,
	}
	if err := conn.WriteJSON(hello); err != nil {
		logger.Fatalf("send HELLO: %v", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	for {
		select {
		case <-stop:
			return
		default:
		}

		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		base, err := protocol.DecodeBase(msg)
		if err != nil {
			continue
		}
		switch base.Type {
		case protocol.TypeWelcome:
			var w protocol.WelcomeMsg
			if err := json.Unmarshal(msg, &w); err != nil {
				continue
			}
			logger.Printf("WELCOME session=%s story_days=%d seed=%d", w.SessionID, w.SimParams.StoryDays, w.SimParams.Seed)

		case protocol.TypeState:
			var st protocol.StateMsg
			if err := json.Unmarshal(msg, &st); err != nil {
				continue
			}
			logger.Printf("day=%d health=%s score=%d eco=%d weather=%s", st.Day, st.Health, st.Score, st.EcoPoints, st.Weather.Kind)
			if st.Day >= *days {
				logger.Printf("done after %d days", st.Day)
				return
			}
			time.Sleep(*pause)
			_ = conn.WriteJSON(nextAdvance(r, &st))

		case protocol.TypeResult:
			var res protocol.ResultMsg
			if err := json.Unmarshal(msg, &res); err != nil {
				continue
			}
			if !res.Accepted {
				logger.Printf("rejected for=%s code=%s msg=%s", res.For, res.Code, res.Message)
				if res.Code == protocol.ErrStoryComplete {
					return
				}
			}
		}
	}
}

// nextAdvance plays a crude steward: pollute at random, but buy policies
// once the river starts to slide.
func nextAdvance(r *rand.Rand, st *protocol.StateMsg) protocol.AdvanceMsg {
	stressed := st.Health != "HEALTHY"
	return protocol.AdvanceMsg{
		Type:            protocol.TypeAdvance,
		ProtocolVersion: protocol.Version,
		Day:             st.Day,
		Inputs: protocol.InputsMsg{
			FactoryOutput:  r.Float64() * 10,
			FarmActivity:   r.Float64() * 10,
			UrbanExpansion: r.Float64() * 10,
		},
		Policies: protocol.PoliciesMsg{
			WastewaterTreatment: stressed,
			OrganicFarming:      stressed,
			EmissionRegulation:  stressed && r.Float64() < 0.5,
			CleanupDrive:        st.Health == "CRITICAL",
		},
	}
}
