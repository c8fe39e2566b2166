package commentary

import (
	"golang.org/x/text/language"

	"github.com/okian/derby/internal/domain/match"
)

// Catalog is one language's template set.
type Catalog struct {
	Tag           language.Tag
	DefaultTeam   string
	DefaultPlayer string
	Neutral       map[Phase][]string
	Events        map[match.EventType][]string
	Meta          []string
	KickOff       string
	FullTime      string
}

// Templates returns the candidates for an event, resolving NOTHING by phase.
func (c *Catalog) Templates(ev match.EventType, phase Phase) []string {
	switch ev {
	case match.Nothing:
		return c.Neutral[phase]
	case match.Attack, match.Shot, match.Save, match.Goal, match.Foul, match.YellowCard, match.RedCard:
		return c.Events[ev]
	}
	return nil
}

var polish = &Catalog{ //nolint:gochecknoglobals // static template table
	Tag:           language.Polish,
	DefaultTeam:   "Drużyna",
	DefaultPlayer: "Zawodnik",
	Neutral: map[Phase][]string{
		PhaseEarly: {
			"Początek spotkania, obie drużyny badają się nawzajem.",
			"Spokojne tempo w pierwszych minutach, nikt nie chce popełnić błędu.",
			"Gra toczy się w środku pola, czekamy na pierwszą groźną akcję.",
			"Obrońcy wymieniają podania, próbując wyciągnąć rywala z defensywy.",
		},
		PhaseMid: {
			"Taktyczne szachy na murawie, trenerzy szukają luki w ustawieniu.",
			"Piłka krąży od nogi do nogi, ale brakuje wykończenia.",
			"Trochę niedokładności w środku pola, gra się rwie.",
			"Walka o górną piłkę w kole środkowym, twarde starcie.",
		},
		PhaseLate: {
			"Zmęczenie daje o sobie znać, tempo nieco spadło.",
			"Zegar tyka, a na boisku wciąż patowa sytuacja w tej akcji.",
			"Próba długiego podania 'na aferę', ale obrońcy są czujni.",
			"Końcówka meczu, nikt nie chce zaryzykować decydującego błędu.",
		},
		PhasePressure: {
			"{team} zamyka rywala na własnej połowie!",
			"Kolejna fala ataku {team}, obrona rozpaczliwie się broni!",
			"To jest oblężenie! {team} nie wypuszcza rywala z pola karnego.",
			"Pachnie bramką! {team} naciska coraz mocniej!",
			"Kibice {team} wstali z miejsc, czują, że gol wisi w powietrzu!",
		},
		PhaseChaos: {
			"Kompletny chaos w polu karnym! Piłka odbija się jak w bilardzie!",
			"Nikt nie panuje nad sytuacją, piłka lata nad głowami!",
			"To nie jest futbol, to walka wręcz o każdą piłkę!",
			"Sędzia traci kontrolę nad spotkaniem, robi się bardzo nerwowo!",
		},
	},
	Events: map[match.EventType][]string{
		match.Attack: {
			"{player} urywa się obrońcom, to może być groźna akcja!",
			"Świetny rajd {player} skrzydłem, ależ ma przyspieszenie!",
			"{team} wychodzi z zabójczą kontrą 3 na 2!",
			"Genialne prostopadłe podanie do {player}, ma autostradę do bramki!",
			"{player} mija rywala balansem ciała i wbiega w pole karne!",
			"Szybka klepka {team}, rozmontowują linię defensywy!",
		},
		match.Shot: {
			"{player} składa się do strzału... UDERZENIE!",
			"Potężna bomba z dystansu w wykonaniu {player}!",
			"{player} próbuje technicznej podcinki nad bramkarzem!",
			"Krótki zwód i natychmiastowy strzał {player} w krótki róg!",
			"{player} uderza z pierwszej piłki, to była trudna pozycja!",
		},
		match.Save: {
			"Niewiarygodne! {player} wyjmuje piłkę z samego okienka!",
			"Robinsonada {player}! Co za interwencja, ratuje wynik!",
			"{player} wygrywa pojedynek sam na sam! Klasa światowa!",
			"To musiał być gol! Ale {player} mówi stanowcze NIE!",
			"{player} instynktownie broni nogami! Co za refleks!",
		},
		match.Goal: {
			"⚽ GOOOOL! {player} wpisuje się na listę strzelców!",
			"⚽ ALEŻ TRAFIENIE! {player} zdejmuje pajęczynę z okienka!",
			"⚽ Stadiony świata! {player} daje prowadzenie drużynie {team}!",
			"⚽ Bramkarz bez szans! Precyzyjny strzał {player} ląduje w siatce!",
			"⚽ To jest nokaut! {player} bezlitośnie wykorzystuje błąd obrony!",
		},
		match.Foul: {
			"Brzydki faul, {player} zdecydowanie przesadził z agresją.",
			"Gwizdek sędziego. {player} fauluje taktycznie, przerywając kontrę.",
			"Nieprzepisowe zagranie {player}, sędzia musiał to odgwizdać.",
		},
		match.YellowCard: {
			"🟨 Żółta kartka dla {player}. Zasłużona kara za ten faul.",
			"🟨 Sędzia nie ma wątpliwości, wyciąga żółty kartonik. {player} musi uważać.",
		},
		match.RedCard: {
			"🟥 CZERWONA KARTKA! {player} wylatuje z boiska! Dramat!",
			"🟥 Brutalne wejście {player} i sędzia bez wahania wyrzuca go z gry!",
		},
	},
	Meta: []string{
		"Mimo optycznej przewagi, {dominator} wciąż nie potrafi udokumentować tego golem.",
		"Wynik na tablicy nie do końca oddaje przebieg tego spotkania.",
		"To niesamowite, że wciąż mamy taki wynik przy tylu sytuacjach.",
	},
	KickOff:  "Sędzia gwiżdże, zaczynamy mecz {home} - {away}!",
	FullTime: "Koniec meczu! {home} {score} {away}",
}

var english = &Catalog{ //nolint:gochecknoglobals // static template table
	Tag:           language.English,
	DefaultTeam:   "The team",
	DefaultPlayer: "The player",
	Neutral: map[Phase][]string{
		PhaseEarly: {
			"Early exchanges, both sides are feeling each other out.",
			"A cautious start, nobody wants to make the first mistake.",
			"The game is stuck in midfield, still waiting for a first real chance.",
			"The centre-backs knock it about, trying to draw the opponent out.",
		},
		PhaseMid: {
			"Tactical chess out there, both managers looking for a gap.",
			"The ball moves from foot to foot but there is no end product.",
			"A few loose passes in midfield, the rhythm keeps breaking down.",
			"A fierce aerial battle in the centre circle.",
		},
		PhaseLate: {
			"Tired legs now, the tempo has dropped.",
			"The clock is ticking and this move goes nowhere.",
			"A hopeful long ball forward, but the defenders are alert.",
			"The closing stages, nobody wants to make the decisive error.",
		},
		PhasePressure: {
			"{team} pin their opponents back in their own half!",
			"Another wave from {team}, the defence is hanging on!",
			"This is a siege! {team} won't let them out of the box.",
			"A goal is coming! {team} turn up the pressure!",
			"The {team} fans are on their feet, they can smell a goal!",
		},
		PhaseChaos: {
			"Total chaos in the box! The ball is pinging around like a pinball!",
			"Nobody is in control, the ball is flying over everyone's heads!",
			"This isn't football anymore, it's a brawl for every ball!",
			"The referee is losing control, tempers are fraying!",
		},
	},
	Events: map[match.EventType][]string{
		match.Attack: {
			"{player} breaks away from the defenders, this could be dangerous!",
			"A brilliant run down the wing by {player}, what acceleration!",
			"{team} break with a lethal three-on-two counter!",
			"A superb through ball to {player}, a clear road to goal!",
			"{player} drops a shoulder, beats his man and is into the box!",
			"Quick one-twos from {team}, they are picking the back line apart!",
		},
		match.Shot: {
			"{player} lines it up... STRIKES!",
			"A thunderbolt from distance by {player}!",
			"{player} tries a delicate chip over the keeper!",
			"A quick feint and {player} fires at the near post!",
			"{player} hits it first time from a tight angle!",
		},
		match.Save: {
			"Unbelievable! {player} claws it out of the top corner!",
			"A flying save from {player}! What a stop, that keeps them in it!",
			"{player} wins the one-on-one! World class!",
			"That had to be a goal! But {player} says NO!",
			"{player} saves with his legs on instinct! What reflexes!",
		},
		match.Goal: {
			"⚽ GOOOAL! {player} gets on the scoresheet!",
			"⚽ WHAT A STRIKE! {player} takes the cobwebs off the top corner!",
			"⚽ Absolute worldie! {player} scores for {team}!",
			"⚽ The keeper had no chance! A precise finish from {player}!",
			"⚽ That's a knockout blow! {player} punishes the defensive error!",
		},
		match.Foul: {
			"A nasty foul, {player} went in far too hard.",
			"Whistle. {player} commits a tactical foul to stop the break.",
			"Illegal challenge from {player}, the referee had to blow.",
		},
		match.YellowCard: {
			"🟨 Yellow card for {player}. A deserved booking for that foul.",
			"🟨 No doubt for the referee, out comes the yellow. {player} must be careful now.",
		},
		match.RedCard: {
			"🟥 RED CARD! {player} is sent off! Drama!",
			"🟥 A brutal challenge from {player} and the referee sends him off without hesitation!",
		},
	},
	Meta: []string{
		"Despite all their territory, {dominator} still can't turn it into goals.",
		"The scoreboard doesn't quite tell the story of this game.",
		"Incredible that the score is still like this after so many chances.",
	},
	KickOff:  "The referee blows the whistle, {home} v {away} is under way!",
	FullTime: "Full time! {home} {score} {away}",
}

var (
	catalogs = []*Catalog{polish, english}                                            //nolint:gochecknoglobals // static
	matcher  = language.NewMatcher([]language.Tag{language.Polish, language.English}) //nolint:gochecknoglobals // static
)

// CatalogFor returns the best catalog for a BCP 47 tag list such as
// "en-GB" or "pl, en;q=0.8". Unknown or empty input yields Polish.
func CatalogFor(lang string) *Catalog {
	tags, _, err := language.ParseAcceptLanguage(lang)
	if err != nil || len(tags) == 0 {
		return polish
	}
	_, idx, _ := matcher.Match(tags...)
	return catalogs[idx]
}
