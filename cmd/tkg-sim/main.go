package main

import (
	"encoding/hex"
	"fmt"
	"log"
	"math"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/f3rmion/tkg/derive"
	"github.com/f3rmion/tkg/dkg"
	"github.com/f3rmion/tkg/keygen"
	"github.com/f3rmion/tkg/messages"
)

var flags = []cli.Flag{
	&cli.StringFlag{
		Name:    "network",
		Value:   string(derive.Ethereum),
		Usage:   "external network to generate a key for",
		EnvVars: []string{"TKG_NETWORK"},
	},
	&cli.UintFlag{
		Name:    "threshold",
		Value:   2,
		Usage:   "participants required to use the key",
		EnvVars: []string{"TKG_THRESHOLD"},
	},
	&cli.UintFlag{
		Name:    "participants",
		Value:   3,
		Usage:   "total participant indices",
		EnvVars: []string{"TKG_PARTICIPANTS"},
	},
	&cli.IntSliceFlag{
		Name:    "shares",
		Usage:   "indices hosted by each validator, e.g. 2,1,1; defaults to one per validator",
		EnvVars: []string{"TKG_SHARES"},
	},
	&cli.UintFlag{
		Name:    "session",
		Value:   1,
		Usage:   "validator set session",
		EnvVars: []string{"TKG_SESSION"},
	},
	&cli.BoolFlag{
		Name:  "log-json",
		Value: false,
		Usage: "log in JSON format",
	},
	&cli.BoolFlag{
		Name:  "log-debug",
		Value: false,
		Usage: "log debug messages",
	},
}

func main() {
	app := &cli.App{
		Name:  "tkg-sim",
		Usage: "Run a threshold key generation ceremony between in-process validators",
		Flags: flags,
		Action: func(cCtx *cli.Context) error {
			logger, err := newLogger(cCtx.Bool("log-json"), cCtx.Bool("log-debug"))
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck
			logger = logger.With(zap.String("run", uuid.Must(uuid.NewRandom()).String()))

			network := derive.Network(cCtx.String("network"))
			weights, err := parseWeights(cCtx.IntSlice("shares"), cCtx.Uint("participants"))
			if err != nil {
				return err
			}
			threshold := cCtx.Uint("threshold")
			if threshold > math.MaxUint16 {
				return errors.Errorf("threshold %d exceeds %d", threshold, math.MaxUint16)
			}
			session := cCtx.Uint("session")
			if session > math.MaxUint32 {
				return errors.Errorf("session %d exceeds %d", session, uint64(math.MaxUint32))
			}
			sim, err := newSimulation(logger, network, uint16(threshold), weights)
			if err != nil {
				return err
			}

			id := messages.KeyGenID{Session: messages.Session(session)}
			kp, err := sim.run(id)
			if err != nil {
				logger.Error("ceremony failed", zap.Error(err))
				return err
			}

			conf, err := sim.confirm(id.Session, kp)
			if err != nil {
				logger.Error("confirmation failed", zap.Error(err))
				return err
			}

			fmt.Printf("network:       %s\n", network)
			fmt.Printf("session:       %d\n", id.Session)
			fmt.Printf("substrate_key: %s\n", hex.EncodeToString(kp.SubstrateKey[:]))
			fmt.Printf("network_key:   %s\n", hex.EncodeToString(kp.NetworkKey))
			if network == derive.Ethereum {
				addr, err := derive.EthereumAddress(kp.NetworkKey)
				if err != nil {
					return err
				}
				fmt.Printf("address:       %s\n", addr.Hex())
			}
			fmt.Printf("confirmation:  %s\n", hex.EncodeToString(conf.Digest[:]))
			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newLogger(json, debug bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if json {
		cfg = zap.NewProductionConfig()
		cfg.DisableCaller = true
	}
	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

// parseWeights returns the share count of each validator. With no explicit
// weights every validator hosts a single index.
func parseWeights(shares []int, participants uint) ([]uint16, error) {
	if participants == 0 || participants > math.MaxUint16 {
		return nil, errors.Errorf("participants must be in 1..%d, got %d", math.MaxUint16, participants)
	}
	if len(shares) == 0 {
		weights := make([]uint16, participants)
		for i := range weights {
			weights[i] = 1
		}
		return weights, nil
	}
	weights := make([]uint16, len(shares))
	total := 0
	for i, s := range shares {
		if s < 1 {
			return nil, errors.Errorf("validator %d hosts %d shares", i+1, s)
		}
		weights[i] = uint16(s)
		total += s
	}
	if uint(total) != participants {
		return nil, errors.Errorf("shares sum to %d, expected %d participants", total, participants)
	}
	return weights, nil
}

type validator struct {
	m      *keygen.Manager
	params dkg.ThresholdParams
	shares uint16
}

// simulation plays the coordinator for a set of validators, each with its
// own Manager.
type simulation struct {
	log        *zap.Logger
	network    derive.Network
	validators []validator
}

func newSimulation(logger *zap.Logger, network derive.Network, threshold uint16, weights []uint16) (*simulation, error) {
	if len(weights) == 0 {
		return nil, errors.New("no validators")
	}
	var total uint32
	for _, w := range weights {
		total += uint32(w)
	}
	if total > math.MaxUint16 {
		return nil, errors.Errorf("%d participants exceed %d", total, math.MaxUint16)
	}
	s := &simulation{log: logger, network: network}
	next := dkg.Participant(1)
	for _, w := range weights {
		params, err := dkg.NewThresholdParams(threshold, uint16(total), next)
		if err != nil {
			return nil, err
		}
		m := keygen.NewManager(keygen.Config{
			Logger: logger.With(zap.Uint16("validator", uint16(next))),
		})
		s.validators = append(s.validators, validator{m: m, params: params, shares: w})
		next += dkg.Participant(w)
	}
	return s, nil
}

func (s *simulation) run(id messages.KeyGenID) (derive.KeyPair, error) {
	start := time.Now()

	commitments := make(map[dkg.Participant][]byte)
	for _, v := range s.validators {
		out, err := v.m.Handle(s.network, messages.GenerateKey{ID: id, Params: v.params, Shares: v.shares})
		if err != nil {
			return derive.KeyPair{}, err
		}
		msg, ok := out.(messages.ProcessorCommitments)
		if !ok {
			return derive.KeyPair{}, errors.Errorf("validator %d sent %T", v.params.Index, out)
		}
		for k, b := range msg.Commitments {
			commitments[v.params.Index+dkg.Participant(k)] = b
		}
	}
	s.log.Debug("collected commitments", zap.Int("count", len(commitments)))

	shares := make(map[dkg.Participant]map[dkg.Participant][]byte)
	for _, v := range s.validators {
		others := make(map[dkg.Participant][]byte, len(commitments))
		for p, b := range commitments {
			if p < v.params.Index || uint32(p) >= uint32(v.params.Index)+uint32(v.shares) {
				others[p] = b
			}
		}
		out, err := v.m.Handle(s.network, messages.Commitments{ID: id, Commitments: others})
		if err != nil {
			return derive.KeyPair{}, err
		}
		msg, ok := out.(messages.ProcessorShares)
		if !ok {
			return derive.KeyPair{}, errors.Errorf("validator %d sent %T", v.params.Index, out)
		}
		for k, dealt := range msg.Shares {
			sender := v.params.Index + dkg.Participant(k)
			for recipient, b := range dealt {
				if shares[recipient] == nil {
					shares[recipient] = make(map[dkg.Participant][]byte)
				}
				shares[recipient][sender] = b
			}
		}
	}

	var agreed *derive.KeyPair
	for _, v := range s.validators {
		own := make([]map[dkg.Participant][]byte, v.shares)
		for k := range own {
			own[k] = shares[v.params.Index+dkg.Participant(k)]
		}
		out, err := v.m.Handle(s.network, messages.Shares{ID: id, Shares: own})
		if err != nil {
			return derive.KeyPair{}, err
		}
		msg, ok := out.(messages.GeneratedKeyPair)
		if !ok {
			return derive.KeyPair{}, errors.Errorf("validator %d sent %T", v.params.Index, out)
		}
		kp := msg.KeyPair()
		if agreed == nil {
			agreed = &kp
		} else if !agreed.Equal(kp) {
			return derive.KeyPair{}, errors.Errorf("validator %d derived a different key pair", v.params.Index)
		}
	}
	s.log.Info("ceremony complete",
		zap.Stringer("id", id),
		zap.Int("validators", len(s.validators)),
		zap.Duration("elapsed", time.Since(start)))
	return *agreed, nil
}

func (s *simulation) confirm(session messages.Session, kp derive.KeyPair) (keygen.Confirmation, error) {
	msg := messages.ConfirmKeyPair{
		Context: messages.SubstrateContext{Time: time.Now().UTC()},
		Session: session,
		KeyPair: kp,
	}
	for _, v := range s.validators {
		if _, err := v.m.Handle(s.network, msg); err != nil {
			return keygen.Confirmation{}, errors.WithMessagef(err, "validator %d", v.params.Index)
		}
	}
	conf, _ := s.validators[0].m.Confirmation(s.network, session)
	return conf, nil
}
