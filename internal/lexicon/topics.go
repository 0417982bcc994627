package lexicon

// Built-in topic names.
const (
	TopicStomach    = "stomach"
	TopicSleep      = "sleep"
	TopicStress     = "stress"
	TopicEnergy     = "energy"
	TopicFocus      = "focus"
	TopicDepression = "depression"
	TopicPain       = "pain"
	TopicFitness    = "fitness"
	TopicBrain      = "brain"
	TopicNutrition  = "nutrition"
)

// DefaultTopics is the health topic table used by the search engine.
var DefaultTopics = []Topic{
	{TopicStomach, []string{"stomach", "gastric", "digestion", "gut", "intestine", "digestive", "belly", "abdominal"}},
	{TopicSleep, []string{"sleep", "insomnia", "circadian", "melatonin", "rest", "sleeping", "sleepy", "tired", "fatigue", "light", "timing"}},
	{TopicStress, []string{"stress", "anxiety", "cortisol", "relax", "calm", "stressed", "anxious", "overwhelm"}},
	{TopicEnergy, []string{"energy", "fatigue", "tired", "dopamine", "motivation", "energetic", "vitality", "exhausted"}},
	{TopicFocus, []string{"focus", "attention", "concentration", "ADHD", "clarity", "focused", "concentrate", "distraction"}},
	{TopicDepression, []string{"depression", "mood", "serotonin", "happiness", "depressed", "sad", "melancholy"}},
	{TopicPain, []string{"pain", "inflammation", "chronic", "relief", "ache", "hurt", "sore"}},
	{TopicFitness, []string{"muscle", "strength", "endurance", "exercise", "workout", "training", "fitness"}},
	{TopicBrain, []string{"brain", "cognitive", "memory", "learning", "neuroplasticity", "neuroscience"}},
	{TopicNutrition, []string{"nutrition", "diet", "fasting", "eating", "food", "metabolism"}},
}

// Default returns a lexicon over DefaultTopics.
func Default() *Lexicon {
	return New(DefaultTopics)
}
