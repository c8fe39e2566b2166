package engine

// Tuning holds every constant of the minute simulation.
type Tuning struct {
	MaxChaos float64

	FatigueMin, FatigueMax float64

	LateMinute     int
	LateChaosBump  float64
	LevelChaosBump float64

	// Neutral-event gate.
	NeutralBase        float64
	NeutralStreakCut   float64
	NeutralGapCut      float64
	NeutralGap         float64
	NeutralChaosCut    float64
	NeutralChaosLevel  float64
	NeutralCloseCut    float64
	NeutralCloseMinute int
	NeutralMin         float64
	NeutralMax         float64

	// Possession.
	StickyPossession float64
	MomentumDivisor  float64
	CatchUpPerGoal   float64
	CatchUpFromDiff  int
	PossessionSlope  float64
	PossessionMin    float64
	PossessionMax    float64

	// Actor weights.
	WeightForward      float64
	WeightAttackingMid float64
	WeightMidfielder   float64
	WeightDefender     float64
	WeightUnknown      float64
	GoalCooldown       float64
	AssistProbability  float64

	// Contested roll.
	AttackRollMin, AttackRollMax   float64
	DefenseRollMin, DefenseRollMax float64
	GoalkeeperBonus                float64
	MomentumRollDivisor            float64
	ComplacencyLead                int
	ComplacencyPenalty             float64
	MercyLead                      int
	MercyPenalty                   float64
	DesperationDeficit             int
	DesperationBonus               float64
	ChaosSpike                     float64

	// Classification.
	GoalThreshold        float64
	GoalThresholdPerGoal float64
	SaveMargin           float64
	ShotMargin           float64
	RedChance            float64
	YellowChance         float64
	FoulChance           float64
	ChaosDisciplineScale float64

	// Applier amounts.
	GoalRating, GoalMomentum, GoalChaos float64
	GoalConfidence                      int
	AssistRating                        float64
	SaveRating, SaveMomentum            float64
	RedRating, RedChaos                 float64
	YellowRating, YellowChaos           float64
	FoulRating, FoulChaos               float64
	ShotRating                          float64
	AttackMomentum, AttackRating        float64
}

// DefaultTuning returns the standard match balance.
func DefaultTuning() Tuning {
	return Tuning{
		MaxChaos: 0.75,

		FatigueMin: 0.05,
		FatigueMax: 0.15,

		LateMinute:     80,
		LateChaosBump:  0.05,
		LevelChaosBump: 0.01,

		NeutralBase:        0.85,
		NeutralStreakCut:   0.30,
		NeutralGapCut:      0.20,
		NeutralGap:         15,
		NeutralChaosCut:    0.15,
		NeutralChaosLevel:  0.4,
		NeutralCloseCut:    0.10,
		NeutralCloseMinute: 75,
		NeutralMin:         0.30,
		NeutralMax:         0.90,

		StickyPossession: 0.6,
		MomentumDivisor:  8,
		CatchUpPerGoal:   7.5,
		CatchUpFromDiff:  2,
		PossessionSlope:  25,
		PossessionMin:    0.15,
		PossessionMax:    0.85,

		WeightForward:      5,
		WeightAttackingMid: 3,
		WeightMidfielder:   2,
		WeightDefender:     1,
		WeightUnknown:      2,
		GoalCooldown:       0.6,
		AssistProbability:  0.7,

		AttackRollMin:       -15,
		AttackRollMax:       20,
		DefenseRollMin:      -10,
		DefenseRollMax:      15,
		GoalkeeperBonus:     5,
		MomentumRollDivisor: 12,
		ComplacencyLead:     2,
		ComplacencyPenalty:  5,
		MercyLead:           4,
		MercyPenalty:        10,
		DesperationDeficit:  2,
		DesperationBonus:    5,
		ChaosSpike:          25,

		GoalThreshold:        8,
		GoalThresholdPerGoal: 1.5,
		SaveMargin:           2,
		ShotMargin:           4,
		RedChance:            0.008,
		YellowChance:         0.05,
		FoulChance:           0.12,
		ChaosDisciplineScale: 1.5,

		GoalRating:     1.0,
		GoalMomentum:   10,
		GoalChaos:      0.05,
		GoalConfidence: 2,
		AssistRating:   0.5,
		SaveRating:     0.5,
		SaveMomentum:   10,
		RedRating:      -2.0,
		RedChaos:       0.3,
		YellowRating:   -0.5,
		YellowChaos:    0.02,
		FoulRating:     -0.1,
		FoulChaos:      0.01,
		ShotRating:     0.2,
		AttackMomentum: 3,
		AttackRating:   0.1,
	}
}
