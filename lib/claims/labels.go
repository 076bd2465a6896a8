// Copyright 2026 The Catkit Authors
// SPDX-License-Identifier: Apache-2.0

package claims

// Standard CWT claim labels (RFC 8392 §4).
const (
	LabelIssuer       uint64 = 1
	LabelSubject      uint64 = 2
	LabelAudience     uint64 = 3
	LabelExpiration   uint64 = 4
	LabelNotBefore    uint64 = 5
	LabelIssuedAt     uint64 = 6
	LabelCWTID        uint64 = 7
	LabelConfirmation uint64 = 8
)

// CAT restriction claim labels (CTA-5007).
const (
	LabelReplay         uint64 = 308 // catreplay
	LabelProbOfRenewal  uint64 = 309 // catpor
	LabelVersion        uint64 = 310 // catv
	LabelNetworkIP      uint64 = 311 // catnip
	LabelURI            uint64 = 312 // catu
	LabelMethods        uint64 = 313 // catm
	LabelALPN           uint64 = 314 // catalpn
	LabelHeaders        uint64 = 315 // cath
	LabelGeoISO3166     uint64 = 316 // catgeoiso3166
	LabelGeoCoordinate  uint64 = 317 // catgeocoord
	LabelGeoAltitude    uint64 = 318 // catgeoalt
	LabelTPK            uint64 = 319 // cattpk
	LabelInterfaceData  uint64 = 320 // catifdata
	LabelDPoP           uint64 = 321 // catdpop
	LabelInterface      uint64 = 322 // catif
	LabelRenewal        uint64 = 323 // catr
	LabelTLSFingerprint uint64 = 324 // cattprint
)

// ReplayMode is the value space of the catreplay claim.
type ReplayMode int64

// Replay protection modes.
const (
	// ReplayPermitted places no replay restriction on the token.
	ReplayPermitted ReplayMode = 0

	// ReplayProhibited rejects a token the verifier has seen before.
	ReplayProhibited ReplayMode = 1

	// ReplayReuseDetection accepts replays but directs the caller to
	// record the token's CTI and act on subsequent uses out of band.
	ReplayReuseDetection ReplayMode = 2
)

// Keys inside a cattprint claim map.
const (
	tprintKeyType  uint64 = 0
	tprintKeyValue uint64 = 1
)

// FingerprintType enumerates the TLS client fingerprint families a
// cattprint claim can pin.
type FingerprintType int64

// Fingerprint families (JA3 and JA4 suites).
const (
	FingerprintJA3      FingerprintType = 0
	FingerprintJA3S     FingerprintType = 1
	FingerprintJA3N     FingerprintType = 2
	FingerprintJA4      FingerprintType = 3
	FingerprintJA4S     FingerprintType = 4
	FingerprintJA4H     FingerprintType = 5
	FingerprintJA4L     FingerprintType = 6
	FingerprintJA4X     FingerprintType = 7
	FingerprintJA4SSH   FingerprintType = 8
	FingerprintJA4T     FingerprintType = 9
	FingerprintJA4TS    FingerprintType = 10
	FingerprintJA4TScan FingerprintType = 11
	FingerprintJA4D     FingerprintType = 12
)

// labelKinds is the schema for known labels: the value shape each label
// requires. Labels absent from this map accept any shape through the
// generic Set.
var labelKinds = map[uint64]Kind{
	LabelIssuer:       KindText,
	LabelSubject:      KindText,
	LabelAudience:     KindText,
	LabelExpiration:   KindInt,
	LabelNotBefore:    KindInt,
	LabelIssuedAt:     KindInt,
	LabelCWTID:        KindBytes,
	LabelConfirmation: KindMap,

	LabelReplay:         KindInt,
	LabelVersion:        KindInt,
	LabelNetworkIP:      KindArray,
	LabelURI:            KindMap,
	LabelMethods:        KindArray,
	LabelALPN:           KindArray,
	LabelHeaders:        KindMap,
	LabelDPoP:           KindMap,
	LabelRenewal:        KindMap,
	LabelTLSFingerprint: KindMap,
}

// timeLabels are the labels whose integer values must be non-negative
// Unix seconds.
var timeLabels = map[uint64]bool{
	LabelExpiration: true,
	LabelNotBefore:  true,
	LabelIssuedAt:   true,
}
