package scenario

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/Shopify/go-lua"
)

const scenarioTypeName = "scenario"

// Scenario is an ordered list of steps loaded from a Lua script.
type Scenario struct {
	Name  string
	Steps []Step
}

// Step is one call recorded by the script.
type Step struct {
	Kind string
	Args map[string]any
}

// LoadScenarioFromFile runs the Lua script at path and returns the Scenario
// it builds. The script must return the value of Scenario.new.
func LoadScenarioFromFile(path string) (*Scenario, error) {
	state := lua.NewState()
	lua.OpenLibraries(state)

	registerLuaTypes(state)

	if err := lua.LoadFile(state, path, ""); err != nil {
		return nil, fmt.Errorf("load lua: %w", err)
	}
	if err := state.ProtectedCall(0, 1, 0); err != nil {
		return nil, fmt.Errorf("run lua: %w", err)
	}

	if state.TypeOf(-1) != lua.TypeUserData {
		state.Pop(1)
		return nil, fmt.Errorf("scenario script must return Scenario")
	}
	ud := state.ToUserData(-1)
	state.Pop(1)
	scenario, ok := ud.(*Scenario)
	if !ok || scenario == nil {
		return nil, fmt.Errorf("scenario script returned invalid Scenario")
	}
	if strings.TrimSpace(scenario.Name) == "" {
		scenario.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return scenario, nil
}

func registerLuaTypes(state *lua.State) {
	lua.NewMetaTable(state, scenarioTypeName)
	state.NewTable()
	lua.SetFunctions(state, scenarioMethods, 0)
	state.SetField(-2, "__index")
	state.Pop(1)

	state.NewTable()
	lua.SetFunctions(state, scenarioConstructor, 0)
	state.SetGlobal("Scenario")
}

var scenarioConstructor = []lua.RegistryFunction{
	{Name: "new", Function: scenarioNew},
}

func scenarioNew(state *lua.State) int {
	name := lua.OptString(state, 1, "")
	scenario := &Scenario{Name: name}
	state.PushUserData(scenario)
	lua.SetMetaTableNamed(state, scenarioTypeName)
	return 1
}

var scenarioMethods = []lua.RegistryFunction{
	{Name: "mix", Function: scenarioMix},
	{Name: "spy", Function: scenarioSpy},
	{Name: "lookup", Function: scenarioLookup},
	{Name: "device", Function: scenarioDevice},
	{Name: "delete", Function: scenarioDelete},
	{Name: "expect_candidates", Function: scenarioExpectCandidates},
	{Name: "expect_knowledge", Function: scenarioExpectKnowledge},
	{Name: "expect_device", Function: scenarioExpectDevice},
	{Name: "expect_animatable", Function: scenarioExpectAnimatable},
	{Name: "expect_consistent", Function: scenarioExpectConsistent},
	{Name: "expect_error", Function: scenarioExpectError},
}

func scenarioMix(state *lua.State) int {
	scenario := checkScenario(state)
	first := lua.CheckString(state, 2)
	second := lua.CheckString(state, 3)
	result := lua.CheckString(state, 4)
	appendStep(scenario, "mix", map[string]any{"first": first, "second": second, "result": result})
	return 0
}

func scenarioSpy(state *lua.State) int {
	scenario := checkScenario(state)
	name := lua.CheckString(state, 2)
	result := lua.CheckString(state, 3)
	appendStep(scenario, "spy", map[string]any{"ingredient": name, "result": result})
	return 0
}

func scenarioLookup(state *lua.State) int {
	scenario := checkScenario(state)
	name := lua.CheckString(state, 2)
	alignment := lua.CheckString(state, 3)
	appendStep(scenario, "lookup", map[string]any{"ingredient": name, "alignment": alignment})
	return 0
}

func scenarioDevice(state *lua.State) int {
	scenario := checkScenario(state)
	name := lua.CheckString(state, 2)
	opts := optionalTable(state, 3)
	data := map[string]any{"ingredient": name, "ears": false, "chest": false}
	for _, key := range []string{"ears", "chest"} {
		value, ok := opts[key]
		if !ok {
			continue
		}
		flag, ok := value.(bool)
		if !ok {
			lua.Errorf(state, "device %s must be a boolean", key)
		}
		data[key] = flag
	}
	appendStep(scenario, "device", data)
	return 0
}

func scenarioDelete(state *lua.State) int {
	scenario := checkScenario(state)
	index := lua.CheckInteger(state, 2)
	appendStep(scenario, "delete", map[string]any{"index": index})
	return 0
}

func scenarioExpectCandidates(state *lua.State) int {
	scenario := checkScenario(state)
	name := lua.CheckString(state, 2)
	lua.CheckType(state, 3, lua.TypeTable)
	appendStep(scenario, "expect_candidates", map[string]any{"ingredient": name, "formulas": tableToGo(state, 3)})
	return 0
}

func scenarioExpectKnowledge(state *lua.State) int {
	scenario := checkScenario(state)
	name := lua.CheckString(state, 2)
	knowledge := lua.CheckString(state, 3)
	appendStep(scenario, "expect_knowledge", map[string]any{"ingredient": name, "knowledge": knowledge})
	return 0
}

func scenarioExpectDevice(state *lua.State) int {
	scenario := checkScenario(state)
	lua.CheckType(state, 2, lua.TypeTable)
	data := tableToMap(state, 2)
	if _, ok := data["ears"]; !ok {
		if _, ok := data["chest"]; !ok {
			lua.Errorf(state, "expect_device requires ears or chest")
		}
	}
	appendStep(scenario, "expect_device", data)
	return 0
}

func scenarioExpectAnimatable(state *lua.State) int {
	scenario := checkScenario(state)
	lua.CheckType(state, 2, lua.TypeTable)
	appendStep(scenario, "expect_animatable", map[string]any{"ingredients": tableToGo(state, 2)})
	return 0
}

func scenarioExpectConsistent(state *lua.State) int {
	scenario := checkScenario(state)
	want := true
	if !state.IsNoneOrNil(2) {
		want = state.ToBoolean(2)
	}
	appendStep(scenario, "expect_consistent", map[string]any{"consistent": want})
	return 0
}

func scenarioExpectError(state *lua.State) int {
	scenario := checkScenario(state)
	code := lua.CheckString(state, 2)
	if len(scenario.Steps) == 0 {
		lua.Errorf(state, "expect_error must follow a step")
	}
	appendStep(scenario, "expect_error", map[string]any{"code": code})
	return 0
}

func checkScenario(state *lua.State) *Scenario {
	ud := lua.CheckUserData(state, 1, scenarioTypeName)
	if scenario, ok := ud.(*Scenario); ok && scenario != nil {
		return scenario
	}
	lua.ArgumentError(state, 1, "scenario expected")
	return nil
}

func appendStep(scenario *Scenario, kind string, data map[string]any) int {
	if scenario == nil {
		return -1
	}
	if data == nil {
		data = map[string]any{}
	}
	scenario.Steps = append(scenario.Steps, Step{Kind: kind, Args: data})
	return len(scenario.Steps) - 1
}

func optionalTable(state *lua.State, index int) map[string]any {
	if state.IsNoneOrNil(index) || state.TypeOf(index) != lua.TypeTable {
		return map[string]any{}
	}
	return tableToMap(state, index)
}

func tableToMap(state *lua.State, index int) map[string]any {
	output := map[string]any{}
	if state.TypeOf(index) != lua.TypeTable {
		return output
	}

	index = state.AbsIndex(index)
	state.PushNil()
	for state.Next(index) {
		if state.TypeOf(-2) == lua.TypeString {
			key, _ := state.ToString(-2)
			output[key] = luaToGo(state, -1)
		}
		state.Pop(1)
	}
	return output
}

func luaToGo(state *lua.State, index int) any {
	switch state.TypeOf(index) {
	case lua.TypeString:
		value, _ := state.ToString(index)
		return value
	case lua.TypeNumber:
		value, _ := state.ToNumber(index)
		return normalizeNumber(value)
	case lua.TypeBoolean:
		return state.ToBoolean(index)
	case lua.TypeTable:
		return tableToGo(state, index)
	default:
		return nil
	}
}

// tableToGo converts sequences to []any and everything else to a map. An
// empty table converts to an empty map.
func tableToGo(state *lua.State, index int) any {
	if state.TypeOf(index) != lua.TypeTable {
		return nil
	}

	index = state.AbsIndex(index)
	isArray := true
	maxIndex := 0
	count := 0
	state.PushNil()
	for state.Next(index) {
		if isArray {
			if state.TypeOf(-2) != lua.TypeNumber {
				isArray = false
			} else if idx, ok := state.ToInteger(-2); ok && idx > 0 {
				count++
				if idx > maxIndex {
					maxIndex = idx
				}
			} else {
				isArray = false
			}
		}
		state.Pop(1)
	}

	if isArray && count > 0 && maxIndex == count {
		result := make([]any, 0, maxIndex)
		for i := 1; i <= maxIndex; i++ {
			state.RawGetInt(index, i)
			result = append(result, luaToGo(state, -1))
			state.Pop(1)
		}
		return result
	}

	return tableToMap(state, index)
}

func normalizeNumber(value float64) any {
	if math.Mod(value, 1) == 0 {
		return int(value)
	}
	return value
}
