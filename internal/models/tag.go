package models

type Tag string

const (
	TagFire       Tag = "Fire"
	TagViolence   Tag = "Violence"
	TagHealth     Tag = "Health"
	TagSOS        Tag = "SOS"
	TagAnimal     Tag = "Animal"
	TagComplaints Tag = "Complaints"
	TagGeneral    Tag = "General"
)

// ParseTag maps unknown or empty input to TagGeneral.
func ParseTag(s string) Tag {
	switch Tag(s) {
	case TagFire, TagViolence, TagHealth, TagSOS, TagAnimal, TagComplaints, TagGeneral:
		return Tag(s)
	default:
		return TagGeneral
	}
}

// Urgent tags get an escalation timer after submission.
func (t Tag) Urgent() bool {
	switch t {
	case TagViolence, TagFire, TagSOS, TagHealth:
		return true
	}
	return false
}

// TagInfo is the per-tag page configuration: icon identifier,
// short description, what to capture, and safety tips in display order.
type TagInfo struct {
	Icon    string   `json:"icon"`
	Desc    string   `json:"desc"`
	Capture []string `json:"capture"`
	Tips    []string `json:"tips"`
}

var tagInfos = map[Tag]TagInfo{
	TagFire: {
		Icon: "fa-fire",
		Desc: "Active fire incident — alert the fire department immediately.",
		Capture: []string{
			"Flames or smoke visibility",
			"Nearby buildings or people",
			"Exact address or landmark",
		},
		Tips: []string{
			"Stay low to avoid smoke inhalation.",
			"Do not use elevators — use stairs.",
			"If the door handle is hot, do not open it.",
			"Cover your mouth with a wet cloth.",
			"If trapped, signal for help from a window.",
			"Never re-enter a burning building.",
			"Stop, drop, and roll if clothes catch fire.",
			"Move away from the building immediately.",
			"Call 101 for fire emergencies.",
			"Warn others nearby to evacuate.",
		},
	},
	TagViolence: {
		Icon: "fa-user-shield",
		Desc: "Report cases of physical assault, harassment, or threats.",
		Capture: []string{
			"Attacker photo (if safe)",
			"Exact location",
			"Nearby CCTV or witnesses",
		},
		Tips: []string{
			"Prioritize your safety above all.",
			"Avoid confrontation — move to a safe area.",
			"Call the police at 100 immediately.",
			"Alert others nearby or shout for help.",
			"Record evidence discreetly if safe.",
			"Note the attacker's features and clothing.",
			"Seek medical help if injured.",
			"Inform family or trusted contacts.",
			"Do not chase or confront the attacker.",
			"Stay in a public area until help arrives.",
		},
	},
	TagHealth: {
		Icon: "fa-hospital",
		Desc: "Report medical emergencies or health hazards.",
		Capture: []string{
			"Condition of patient",
			"Nearby landmarks",
			"Possible cause or symptoms",
		},
		Tips: []string{
			"Call 108 (ambulance) immediately.",
			"Check if the patient is breathing.",
			"Do not move the injured unless necessary.",
			"Apply pressure to stop visible bleeding.",
			"If unconscious but breathing, place in recovery position.",
			"Start CPR only if trained.",
			"Keep the person calm and warm.",
			"Avoid giving food or drink to unconscious patients.",
			"Inform the nearest hospital quickly.",
			"Stay until help arrives.",
		},
	},
	TagSOS: {
		Icon: "fa-bullhorn",
		Desc: "Emergency SOS alert for immediate help.",
		Capture: []string{
			"Short video (if possible)",
			"Exact location",
			"Attacker or danger details",
		},
		Tips: []string{
			"Move to a safe, well-lit, public place.",
			"Call 112 or 100 immediately.",
			"Share your live location with trusted contacts.",
			"Keep your phone on silent if hiding.",
			"Avoid direct confrontation.",
			"Stay calm and alert.",
			"Seek shelter in nearby stores or buildings.",
			"Signal nearby people for help.",
			"Do not engage with suspicious persons.",
			"Stay where police can locate you quickly.",
		},
	},
	TagAnimal: {
		Icon: "fa-paw",
		Desc: "Report injured, stray, or aggressive animals.",
		Capture: []string{
			"Photo of the animal",
			"Visible injuries",
			"Exact location or landmark",
		},
		Tips: []string{
			"Approach slowly and calmly.",
			"Avoid touching aggressive animals.",
			"Call local animal rescue or NGOs.",
			"Provide shade and water if possible.",
			"Use a towel to handle small injured animals.",
			"Do not feed or medicate without expert advice.",
			"Keep the animal away from traffic.",
			"Wait until rescue arrives if safe.",
			"Warn others nearby.",
			"Stay gentle and patient.",
		},
	},
	TagComplaints: {
		Icon: "fa-city",
		Desc: "Report civic issues — water, roads, pollution, etc.",
		Capture: []string{
			"Photo of issue",
			"Landmark nearby",
			"Street or area name",
		},
		Tips: []string{
			"Avoid going near open manholes or drains.",
			"Take photos from a safe distance.",
			"Report standing sewage or flooding immediately.",
			"Avoid touching exposed electrical wires.",
			"Encourage others to report civic problems.",
			"Do not block traffic while taking photos.",
			"Keep distance from large construction equipment.",
			"Wear a mask in polluted areas.",
			"Use gloves if handling garbage.",
			"Follow up with local authorities for resolution.",
		},
	},
	TagGeneral: {
		Icon: "fa-triangle-exclamation",
		Desc: "Report any general civic or emergency issue.",
		Capture: []string{
			"Images or video",
			"Accurate address",
			"Brief description",
		},
		Tips: []string{
			"Stay calm and assess the situation.",
			"Ensure your safety before reporting.",
			"Avoid misinformation or exaggeration.",
			"Provide clear, factual details.",
			"Do not confront anyone involved.",
			"Take photos safely from a distance.",
			"Keep emergency numbers handy.",
			"Alert others if there is danger nearby.",
			"Encourage collective reporting.",
			"Follow up if the issue persists.",
		},
	},
}

// Info returns the page configuration for the tag, falling back to
// the General entry for anything outside the enumeration.
func (t Tag) Info() TagInfo {
	if info, ok := tagInfos[t]; ok {
		return info
	}
	return tagInfos[TagGeneral]
}
