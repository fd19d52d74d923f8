package input

import (
	"context"
	"fmt"
	"os"

	"git.fiblab.net/general/common/v2/mongoutil"
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/utils/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"gopkg.in/yaml.v2"
)

// Input 输入数据
// 功能：存储仿真所需的所有输入数据
// 说明：包含地图、建筑、居民、药店数据，建筑/居民/药店支持从文件或数据库加载
type Input struct {
	Map        *Map
	Buildings  []Building
	Citizens   []Citizen
	Pharmacies []Pharmacy
}

// Init 下载数据
// 功能：根据配置初始化并加载所有输入数据
// 参数：config-配置对象
// 返回：加载完成的输入数据指针
// 算法说明：
// 1. 数据库连接：如果配置了MongoDB则建立连接
// 2. 地图数据加载：只支持文件
// 3. 建筑、居民、药店数据加载：文件优先，否则从MongoDB加载
// 4. 数据验证：检查ID重复与居民引用的建筑是否存在
func Init(config config.Config) (res *Input) {
	var client *mongo.Client
	if config.Input.URI != "" {
		client = mongoutil.NewClient(config.Input.URI)
		defer client.Disconnect(context.Background())
	}

	res = &Input{}
	if config.Input.Map.File == "" {
		log.Panic("input.map.file must be specified")
	}
	var m Map
	if err := loadFile(config.Input.Map.File, &m); err != nil {
		log.Panicf("failed to load map from file: %v", err)
	}
	res.Map = &m

	var err error
	if res.Buildings, err = load[Building](client, config.Input.Buildings); err != nil {
		log.Panicf("failed to load buildings: %v", err)
	}
	if config.Input.Citizens != nil {
		if res.Citizens, err = load[Citizen](client, *config.Input.Citizens); err != nil {
			log.Panicf("failed to load citizens: %v", err)
		}
	}
	if config.Input.Pharmacy != nil {
		if res.Pharmacies, err = load[Pharmacy](client, *config.Input.Pharmacy); err != nil {
			log.Panicf("failed to load pharmacies: %v", err)
		}
	}
	if err := res.Validate(); err != nil {
		log.Panic(err)
	}
	if config.Input.Citizens != nil && len(res.Citizens) == 0 {
		log.Error("no valid citizens to simulate")
	}
	return
}

// Validate 数据验证
// 功能：检查建筑与居民ID是否重复，居民的家与工作地是否存在
func (in *Input) Validate() error {
	buildingIDs := make(map[int32]struct{}, len(in.Buildings))
	for _, b := range in.Buildings {
		if _, ok := buildingIDs[b.ID]; ok {
			return fmt.Errorf("buildings have duplicated ids %d, please check data", b.ID)
		}
		buildingIDs[b.ID] = struct{}{}
	}
	citizenIDs := make(map[int32]struct{}, len(in.Citizens))
	for _, c := range in.Citizens {
		if _, ok := citizenIDs[c.ID]; ok {
			return fmt.Errorf("citizens have duplicated ids %d, please check data", c.ID)
		}
		citizenIDs[c.ID] = struct{}{}
		if _, ok := buildingIDs[c.Home]; !ok {
			return fmt.Errorf("citizen %d: home building %d not found", c.ID, c.Home)
		}
		if _, ok := buildingIDs[c.Work]; !ok {
			return fmt.Errorf("citizen %d: work building %d not found", c.ID, c.Work)
		}
	}
	for _, p := range in.Pharmacies {
		if _, ok := buildingIDs[p.BuildingID]; !ok {
			return fmt.Errorf("pharmacy building %d not found", p.BuildingID)
		}
	}
	return nil
}

// load 加载数据（泛型函数）
// 功能：File不为空时从YAML文件加载列表，否则从MongoDB集合加载
// 参数：client-MongoDB客户端，inputPath-输入路径配置
// 返回：加载的数据列表
func load[T any](client *mongo.Client, inputPath config.InputPath) ([]T, error) {
	if inputPath.File != "" {
		var res []T
		if err := loadFile(inputPath.File, &res); err != nil {
			return nil, err
		}
		return res, nil
	}
	if client == nil {
		return nil, fmt.Errorf("no file or mongodb uri for %s.%s", inputPath.DB, inputPath.Col)
	}
	log.Infof("start fetching from %s.%s", inputPath.DB, inputPath.Col)
	coll := mongoutil.GetMongoColl(client, inputPath)
	ctx := context.Background()
	cursor, err := coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("find %s.%s: %w", inputPath.DB, inputPath.Col, err)
	}
	var res []T
	if err := cursor.All(ctx, &res); err != nil {
		return nil, fmt.Errorf("decode %s.%s: %w", inputPath.DB, inputPath.Col, err)
	}
	log.Infof("finish fetching from %s.%s", inputPath.DB, inputPath.Col)
	return res, nil
}

func loadFile(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
