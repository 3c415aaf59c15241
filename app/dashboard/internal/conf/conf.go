package conf

type Bootstrap struct {
	Server    *Server
	Data      *Data
	Analytics *Analytics
}

type Server struct {
	Http *HTTP
}

type HTTP struct {
	Addr    string
	Timeout string
}

type Data struct {
	Database *Database
}

type Database struct {
	Driver string
	Source string
}

type Analytics struct {
	Api         *API         `json:"api"`
	Source      *Source      `json:"source"`
	Llm         *LLM         `json:"llm"`
	Advisor     *Advisor     `json:"advisor"`
	Scope       *Scope       `json:"scope"`
	Localities  []string     `json:"localities"`
	Log         *Log         `json:"log"`
	Concurrency *Concurrency `json:"concurrency"`
}

type API struct {
	BaseUrl string `json:"base_url"`
	City    string `json:"city"`
	Timeout int32  `json:"timeout"`
}

type Source struct {
	Provider string `json:"provider"`
	File     string `json:"file"`
}

type LLM struct {
	BaseUrl string `json:"base_url"`
	ApiKey  string `json:"api_key"`
	Model   string `json:"model"`
}

type Advisor struct {
	Provider string `json:"provider"`
}

type Scope struct {
	CityAliases   []string `json:"city_aliases"`
	EmptyFallback string   `json:"empty_fallback"`
}

type Log struct {
	Level string `json:"level"`
	File  string `json:"file"`
}

type Concurrency struct {
	Qps int32 `json:"qps"`
	Rpm int32 `json:"rpm"`
}
